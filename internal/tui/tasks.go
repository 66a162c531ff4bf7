package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/timeutil"
)

// tasksModel lists the tasks, creates new ones through a form, and drives
// the deep-work focus session on the selected task.
type tasksModel struct {
	deps   Deps
	width  int
	height int

	tasks  []model.Task
	focus  *model.FocusSession
	cursor int

	// true = subtasks of the selected task
	viewingSubtasks bool
	subtaskCursor   int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formStart       *string
	formFocus       *bool
	formSubtasks    *string
}

func newTasksModel(deps Deps) tasksModel {
	title, desc, start, subtasks := "", "", "", ""
	focus := false
	return tasksModel{
		deps:            deps,
		formTitle:       &title,
		formDescription: &desc,
		formStart:       &start,
		formFocus:       &focus,
		formSubtasks:    &subtasks,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	svc := m.deps.Tasks
	focusSvc := m.deps.Focus
	return func() tea.Msg {
		tasks, err := svc.List()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load tasks: %v", err), isError: true}
		}
		focus, _ := focusSvc.Current()
		return tasksDataMsg{tasks: tasks, focus: focus}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		m.focus = msg.focus
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		if m.viewingSubtasks {
			return m.updateSubtaskView(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.tasks) > 0 && len(m.tasks[m.cursor].Subtasks) > 0 {
			m.viewingSubtasks = true
			m.subtaskCursor = 0
		}
	case key.Matches(msg, keys.New):
		return m.showNewTaskForm()
	case key.Matches(msg, keys.Done):
		if len(m.tasks) > 0 {
			return m.do(m.deps.Tasks.MarkDone(m.tasks[m.cursor].ID), "Task completed")
		}
	case key.Matches(msg, keys.Delete):
		if len(m.tasks) > 0 {
			return m.do(m.deps.Tasks.Delete(m.tasks[m.cursor].ID), "Task deleted")
		}
	case key.Matches(msg, keys.Start):
		if len(m.tasks) > 0 {
			_, err := m.deps.Focus.Start(m.tasks[m.cursor].ID, 0)
			return m.do(err, "Focus session started")
		}
	case key.Matches(msg, keys.Stop):
		if m.focus != nil {
			return m.do(m.deps.Focus.Complete(), "Focus session completed")
		}
	case key.Matches(msg, keys.Back):
		if m.focus != nil {
			return m.do(m.deps.Focus.Cancel(), "Focus session cancelled")
		}
	}
	return m, nil
}

func (m tasksModel) updateSubtaskView(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	subtasks := m.tasks[m.cursor].Subtasks
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingSubtasks = false
	case key.Matches(msg, keys.Up):
		if m.subtaskCursor > 0 {
			m.subtaskCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.subtaskCursor < len(subtasks)-1 {
			m.subtaskCursor++
		}
	case key.Matches(msg, keys.Pause), key.Matches(msg, keys.Enter):
		task := m.tasks[m.cursor]
		st := subtasks[m.subtaskCursor]
		var err error
		// Route through the focus session when it owns this task.
		if m.focus != nil && m.focus.TaskID == task.ID {
			err = m.deps.Focus.ToggleSubtask(st.ID)
		} else {
			err = m.deps.Tasks.ToggleSubtask(task.ID, st.ID)
		}
		return m.do(err, "")
	}
	return m, nil
}

// do wraps a service call into a refresh plus status line.
func (m tasksModel) do(err error, okText string) (tasksModel, tea.Cmd) {
	if err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	cmds := []tea.Cmd{m.refresh()}
	if okText != "" {
		cmds = append(cmds, func() tea.Msg { return statusMsg{text: okText} })
	}
	return m, tea.Batch(cmds...)
}

func (m tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formDescription = ""
	*m.formStart = ""
	*m.formFocus = false
	*m.formSubtasks = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Description").Value(m.formDescription),
			huh.NewInput().Title("Start time (HH:MM, optional)").Value(m.formStart),
			huh.NewInput().Title("Subtasks (comma-separated)").Value(m.formSubtasks),
			huh.NewConfirm().Title("Focus task?").Value(m.formFocus),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m.submitNewTask()
	}
	return m, cmd
}

func (m tasksModel) submitNewTask() (tasksModel, tea.Cmd) {
	var start *timeutil.Clock
	if *m.formStart != "" {
		clock, err := timeutil.ParseClock(*m.formStart)
		if err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Bad start time: %v", err), isError: true}
			}
		}
		start = &clock
	}

	var subtasks []string
	for _, s := range strings.Split(*m.formSubtasks, ",") {
		subtasks = append(subtasks, strings.TrimSpace(s))
	}

	_, err := m.deps.Tasks.Create(*m.formTitle, *m.formDescription, start, *m.formFocus, subtasks)
	return m.do(err, "Task created")
}

func (m tasksModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	if m.viewingSubtasks {
		return m.renderSubtaskView()
	}
	return m.renderList()
}

func (m tasksModel) renderList() string {
	w := m.width - 4
	title := titleStyle.Render("Tasks")

	var rows []string
	rows = append(rows, title)

	if m.focus != nil {
		rows = append(rows, "")
		rows = append(rows, m.renderFocusLine())
	}
	rows = append(rows, "")

	if len(m.tasks) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks yet. Press n to create one."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	for i, task := range m.tasks {
		rows = append(rows, m.renderTaskRow(task, i == m.cursor))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  c: complete  d: delete  s: focus  x: end focus  enter: subtasks"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m tasksModel) renderTaskRow(task model.Task, selected bool) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	check := "○"
	switch task.Status {
	case model.StatusDone:
		check = successStyle.Render("●")
		style = mutedStyle
	case model.StatusInProgress:
		check = warningStyle.Render("◐")
	}

	start := "     "
	if task.StartTime != nil {
		start = task.StartTime.String()
	}

	extras := ""
	if task.Focus {
		extras += errorStyle.Render(" ★")
	}
	if n := len(task.Subtasks); n > 0 {
		done := 0
		for _, st := range task.Subtasks {
			if st.Done {
				done++
			}
		}
		extras += mutedStyle.Render(fmt.Sprintf(" [%d/%d]", done, n))
	}

	return style.Render(fmt.Sprintf("%s%s %s %s", cursor, check, start, task.Title)) + extras
}

func (m tasksModel) renderFocusLine() string {
	taskTitle := m.focus.TaskID
	for _, task := range m.tasks {
		if task.ID == m.focus.TaskID {
			taskTitle = task.Title
			break
		}
	}

	line := fmt.Sprintf("  ◎ Focusing on %q", taskTitle)
	if report, err := m.deps.Focus.Progress(); err == nil {
		line += fmt.Sprintf(" — %s elapsed, %d%%", formatMinutes(report.ElapsedMinutes), report.PercentComplete)
	}
	return highlightStyle.Render(line)
}

func (m tasksModel) renderSubtaskView() string {
	w := m.width - 4
	task := m.tasks[m.cursor]
	title := titleStyle.Render(task.Title + " — Subtasks")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, st := range task.Subtasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.subtaskCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "○"
		if st.Done {
			check = successStyle.Render("●")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, check, st.Title)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: toggle  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
