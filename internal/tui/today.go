package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/schedule"
	"github.com/coderno/planner/internal/timeutil"
)

// todayModel renders one day's combined timeline: the half-hour grid with
// routines and scheduled tasks laid onto it, plus conflict warnings.
type todayModel struct {
	deps   Deps
	width  int
	height int

	date    timeutil.Date
	blocks  []model.CombinedBlock
	overlap []string
	cursor  int
}

func newTodayModel(deps Deps) todayModel {
	return todayModel{
		deps: deps,
		date: timeutil.DateOf(time.Now()),
	}
}

func (t *todayModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t todayModel) refresh() tea.Cmd {
	date := t.date
	composer := t.deps.Composer
	return func() tea.Msg {
		blocks, err := composer.Timeline(date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Timeline error: %v", err), isError: true}
		}

		var lines []string
		report := schedule.Overlap(blocks)
		for _, pair := range report.Pairs {
			lines = append(lines, fmt.Sprintf("%s %s ↔ %s %s",
				pair[0].StartTime, pair[0].Title, pair[1].StartTime, pair[1].Title))
		}
		return timelineDataMsg{blocks: blocks, overlap: lines}
	}
}

func (t todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case timelineDataMsg:
		t.blocks = msg.blocks
		t.overlap = msg.overlap
		if t.cursor >= len(t.blocks) {
			t.cursor = max(0, len(t.blocks)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			t.date = t.date.AddDays(-1)
			t.cursor = 0
			return t, t.refresh()
		case key.Matches(msg, keys.Right):
			t.date = t.date.AddDays(1)
			t.cursor = 0
			return t, t.refresh()
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.blocks)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Done):
			return t.completeSelected()
		}
	}
	return t, nil
}

// completeSelected marks a selected task block's task done. Routine blocks
// have no completion state.
func (t todayModel) completeSelected() (todayModel, tea.Cmd) {
	if t.cursor >= len(t.blocks) {
		return t, nil
	}
	block := t.blocks[t.cursor]
	if block.IsRoutine {
		return t, func() tea.Msg {
			return statusMsg{text: "Routines have no completion state"}
		}
	}
	if err := t.deps.Tasks.MarkDone(block.ID); err != nil {
		return t, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	return t, tea.Batch(t.refresh(), func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Completed %q", block.Title)}
	})
}

func (t todayModel) view() string {
	w := t.width - 4

	title := titleStyle.Render(fmt.Sprintf("Today — %s", t.date.Time().Format("Mon, Jan 02 2006")))

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, line := range t.overlap {
		rows = append(rows, warningStyle.Render("  ⚠ overlap: "+line))
	}
	if len(t.overlap) > 0 {
		rows = append(rows, "")
	}

	rows = append(rows, t.renderGrid()...)

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: day  ↑/↓: select  c: complete task"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// renderGrid walks the half-hour slots and prints the blocks that start in
// each one next to its label.
func (t todayModel) renderGrid() []string {
	slots := schedule.TimeSlots(t.deps.Config.Timeline.StartHour, t.deps.Config.Timeline.EndHour)

	blockIdx := 0
	var rows []string
	for _, slot := range slots {
		label := slot.Time.String()
		if slot.IsHalfHour {
			label = mutedStyle.Render(label)
		} else {
			label = normalItemStyle.Render(label)
		}

		var cells []string
		for blockIdx < len(t.blocks) && t.blocks[blockIdx].StartTime < slot.Time.Add(30) {
			b := t.blocks[blockIdx]
			if b.StartTime >= slot.Time {
				cells = append(cells, t.renderBlock(b, blockIdx == t.cursor))
			}
			blockIdx++
		}

		line := fmt.Sprintf("  %s │ %s", label, strings.Join(cells, "  "))
		if len(cells) == 0 {
			line = fmt.Sprintf("  %s │", label)
		}
		rows = append(rows, line)
	}
	return rows
}

func (t todayModel) renderBlock(b model.CombinedBlock, selected bool) string {
	dot := lipgloss.NewStyle().Foreground(blockColor(b.Color)).Render("█")
	glyph := ""
	if b.IsRoutine {
		glyph = iconGlyph(b.Icon) + " "
	}
	label := fmt.Sprintf("%s %s%s (%s–%s)", dot, glyph, b.Title, b.StartTime, b.EndTime)

	style := normalItemStyle
	if selected {
		style = selectedItemStyle
		label = "> " + label
	}
	if b.Source.Task != nil && b.Source.Task.Status == model.StatusDone {
		style = mutedStyle
		label += " ✓"
	}
	return style.Render(label)
}
