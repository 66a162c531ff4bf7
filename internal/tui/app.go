// Package tui is the Bubble Tea front end: a tabbed app over the planner's
// timeline, tasks, pomodoro timer, routines, progress stats and rewards.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coderno/planner/internal/config"
	"github.com/coderno/planner/internal/export"
	"github.com/coderno/planner/internal/progress"
	"github.com/coderno/planner/internal/repo"
	"github.com/coderno/planner/internal/schedule"
	"github.com/coderno/planner/internal/service"
)

// Deps bundles everything the views need.
type Deps struct {
	Config   config.Config
	Tasks    *service.TaskService
	Pomodoro *service.PomodoroService
	Focus    *service.FocusService
	Rewards  *service.RewardService
	Engine   *progress.Engine
	Composer *schedule.Composer
	Records  *repo.Progress
	Routines *repo.Routines
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today    todayModel
	tasks    tasksModel
	pomodoro pomodoroModel
	routines routinesModel
	progress progressModel
	rewards  rewardsModel

	help   help.Model
	status string
}

func NewApp(deps Deps) App {
	h := help.New()
	h.ShowAll = false

	return App{
		deps:       deps,
		activeView: viewToday,
		today:      newTodayModel(deps),
		tasks:      newTasksModel(deps),
		pomodoro:   newPomodoroModel(deps),
		routines:   newRoutinesModel(deps),
		progress:   newProgressModel(deps),
		rewards:    newRewardsModel(deps),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.today.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.tasks.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.routines.setSize(a.width, contentHeight)
		a.progress.setSize(a.width, contentHeight)
		a.rewards.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, a.today.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTasks
			return a, a.tasks.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewPomodoro
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewRoutines
			return a, a.routines.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewProgress
			return a, a.progress.refresh()
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewRewards
			return a, a.rewards.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 6
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case pomodoroDoneMsg:
		a.status = "Work session recorded"
		// Rewards may have been unlocked by the completion.
		return a, a.rewards.refresh()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewRoutines:
		a.routines, cmd = a.routines.update(msg)
	case viewProgress:
		a.progress, cmd = a.progress.update(msg)
	case viewRewards:
		a.rewards, cmd = a.rewards.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewRoutines:
		return a.routines.formActive
	case viewRewards:
		return a.rewards.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.refresh()
	case viewTasks:
		return a.tasks.refresh()
	case viewRoutines:
		return a.routines.refresh()
	case viewProgress:
		return a.progress.refresh()
	case viewRewards:
		return a.rewards.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewTasks:
		content = a.tasks.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewRoutines:
		content = a.routines.view()
	case viewProgress:
		content = a.progress.view()
	case viewRewards:
		content = a.rewards.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("planner")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Countdown indicator while a pomodoro runs
	timerInfo := ""
	if a.pomodoro.running() {
		timerInfo = successStyle.Render(" ● " + formatCountdown(a.pomodoro.remaining))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Progress")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		records, err := a.deps.Records.Records()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("planner-progress-%s.csv", dateStr))
			if err := export.ToCSV(records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("planner-progress-%s.json", dateStr))
			if err := export.ToJSON(records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
