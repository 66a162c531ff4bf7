package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/timeutil"
)

// progressModel shows the aggregated statistics: streak, best day, average
// focus and a focus-minutes bar chart for the selected week.
type progressModel struct {
	deps   Deps
	width  int
	height int

	stats  *model.ProgressStats
	offset int // weeks back from the current one (0 = current)

	chart barchart.Model
}

func newProgressModel(deps Deps) progressModel {
	return progressModel{
		deps:  deps,
		chart: barchart.New(60, 12),
	}
}

func (p *progressModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p progressModel) weekRange() (timeutil.Date, timeutil.Date) {
	start := timeutil.DateOf(time.Now()).WeekStart().AddDays(-7 * p.offset)
	return start, start.AddDays(6)
}

func (p progressModel) refresh() tea.Cmd {
	engine := p.deps.Engine
	start, end := p.weekRange()
	return func() tea.Msg {
		stats, err := engine.Stats(start, end)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load stats: %v", err), isError: true}
		}
		return progressDataMsg{stats: stats}
	}
}

func (p progressModel) update(msg tea.Msg) (progressModel, tea.Cmd) {
	switch msg := msg.(type) {
	case progressDataMsg:
		p.stats = msg.stats
		p.buildChart()
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			p.offset++
			return p, p.refresh()
		case key.Matches(msg, keys.Right):
			if p.offset > 0 {
				p.offset--
			}
			return p, p.refresh()
		}
	}
	return p, nil
}

// buildChart plots one bar per day of the selected week, focus minutes as
// the value. Days without a record draw as zero.
func (p *progressModel) buildChart() {
	chartWidth := p.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if p.height > 30 {
		chartHeight = 16
	}

	p.chart = barchart.New(chartWidth, chartHeight)

	byDate := make(map[timeutil.Date]model.ProgressRecord)
	if p.stats != nil {
		for _, week := range p.stats.Weekly {
			for _, rec := range week.DailyData {
				byDate[rec.Date] = rec
			}
		}
	}

	start, _ := p.weekRange()
	var bars []barchart.BarData
	for i := 0; i < 7; i++ {
		date := start.AddDays(i)
		label := date.Time().Format("Mon")

		value := float64(byDate[date].FocusMinutes)
		style := lipgloss.NewStyle().Foreground(colorHighlight)
		if value == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}

		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: string(date), Value: value, Style: style},
			},
		})
	}

	p.chart.PushAll(bars)
	p.chart.Draw()
}

func (p progressModel) view() string {
	w := p.width - 4

	start, end := p.weekRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", start.Time().Format("Jan 02"), end.Time().Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Progress"), "  ", dateLabel,
	)

	statsView := p.renderStats()
	weekView := p.renderWeekTotals()
	nav := mutedStyle.Render("  ←/→: change week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", statsView, "", p.chart.View(), "", weekView, "", nav,
		),
	)
}

func (p progressModel) renderStats() string {
	if p.stats == nil {
		return mutedStyle.Render("  Loading…")
	}

	streak := p.stats.Streak
	streakLine := fmt.Sprintf("  🔥 Streak: %d day(s)  (best %d)", streak.CurrentStreak, streak.LongestStreak)
	if streak.CurrentStreak == 0 {
		streakLine = "  Streak: none — do a task or log focus time to start one"
	}

	lines := []string{highlightStyle.Render(streakLine)}

	if best := p.stats.BestDay; best != nil {
		lines = append(lines, successStyle.Render(fmt.Sprintf(
			"  ★ Best day: %s — %d task(s), %s focus", best.Date, best.TasksCompleted, formatMinutes(best.FocusMinutes))))
	}
	if p.stats.AverageFocusTime > 0 {
		lines = append(lines, normalItemStyle.Render(fmt.Sprintf(
			"  Average focus on active days: %s", formatMinutes(p.stats.AverageFocusTime))))
	}
	return strings.Join(lines, "\n")
}

func (p progressModel) renderWeekTotals() string {
	if p.stats == nil || len(p.stats.Weekly) == 0 {
		return mutedStyle.Render("  No activity recorded this week")
	}

	week := p.stats.Weekly[0]
	return mutedStyle.Render(fmt.Sprintf("  Week totals: %d task(s), %d pomodoro(s), %s focus",
		week.TotalTasksCompleted, week.TotalPomodoroSessions, formatMinutes(week.TotalFocusMinutes)))
}
