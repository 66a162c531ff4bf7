package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/timeutil"
)

// routinesModel manages the recurring routines and surfaces routine
// suggestions derived from task scheduling habits.
type routinesModel struct {
	deps   Deps
	width  int
	height int

	routines    []model.DailyRoutine
	suggestions []model.DailyRoutine
	cursor      int

	// true = browsing suggestions instead of routines
	viewingSuggestions bool
	suggestionCursor   int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName     *string
	formTime     *string
	formDuration *string
	formIcon     *string
	formRepeat   *string
	formColor    *string
}

var routineIcons = []model.Icon{model.IconSun, model.IconMeal, model.IconRest, model.IconSleep, model.IconNote}
var routineRepeats = []model.RepeatRule{model.RepeatDaily, model.RepeatWeekday, model.RepeatWeekend}
var routineColors = []model.Color{
	model.ColorYellow, model.ColorGreen, model.ColorBlue, model.ColorIndigo,
	model.ColorPurple, model.ColorOrange, model.ColorRed, model.ColorNeutral,
}

func newRoutinesModel(deps Deps) routinesModel {
	name, t, dur := "", "", "30"
	icon, repeat, color := string(model.IconNote), string(model.RepeatDaily), string(model.ColorYellow)
	return routinesModel{
		deps:         deps,
		formName:     &name,
		formTime:     &t,
		formDuration: &dur,
		formIcon:     &icon,
		formRepeat:   &repeat,
		formColor:    &color,
	}
}

func (m *routinesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m routinesModel) refresh() tea.Cmd {
	repo := m.deps.Routines
	composer := m.deps.Composer
	return func() tea.Msg {
		routines, err := repo.All()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load routines: %v", err), isError: true}
		}
		suggestions, _ := composer.SuggestRoutines()
		return routinesDataMsg{routines: routines, suggestions: suggestions}
	}
}

func (m routinesModel) update(msg tea.Msg) (routinesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case routinesDataMsg:
		m.routines = msg.routines
		m.suggestions = msg.suggestions
		if m.cursor >= len(m.routines) {
			m.cursor = max(0, len(m.routines)-1)
		}
		if m.suggestionCursor >= len(m.suggestions) {
			m.suggestionCursor = max(0, len(m.suggestions)-1)
		}
		return m, nil

	case tea.KeyMsg:
		if m.viewingSuggestions {
			return m.updateSuggestionView(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m routinesModel) updateList(msg tea.KeyMsg) (routinesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.routines)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showNewRoutineForm()
	case key.Matches(msg, keys.Delete):
		if len(m.routines) > 0 {
			if err := m.deps.Routines.Delete(m.routines[m.cursor].ID); err != nil {
				return m, errorStatus(err)
			}
			return m, m.refresh()
		}
	case key.Matches(msg, keys.Suggest):
		m.viewingSuggestions = true
		m.suggestionCursor = 0
	}
	return m, nil
}

func (m routinesModel) updateSuggestionView(msg tea.KeyMsg) (routinesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingSuggestions = false
	case key.Matches(msg, keys.Up):
		if m.suggestionCursor > 0 {
			m.suggestionCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.suggestionCursor < len(m.suggestions)-1 {
			m.suggestionCursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.suggestions) > 0 {
			if err := m.deps.Routines.Save(m.suggestions[m.suggestionCursor]); err != nil {
				return m, errorStatus(err)
			}
			m.viewingSuggestions = false
			return m, tea.Batch(m.refresh(), func() tea.Msg {
				return statusMsg{text: "Suggestion added as routine"}
			})
		}
	}
	return m, nil
}

func errorStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

func (m routinesModel) showNewRoutineForm() (routinesModel, tea.Cmd) {
	*m.formName = ""
	*m.formTime = ""
	*m.formDuration = "30"
	*m.formIcon = string(model.IconNote)
	*m.formRepeat = string(model.RepeatDaily)
	*m.formColor = string(model.ColorYellow)

	iconOptions := make([]huh.Option[string], len(routineIcons))
	for i, ic := range routineIcons {
		iconOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", iconGlyph(ic), ic), string(ic))
	}
	repeatOptions := make([]huh.Option[string], len(routineRepeats))
	for i, r := range routineRepeats {
		repeatOptions[i] = huh.NewOption(string(r), string(r))
	}
	colorOptions := make([]huh.Option[string], len(routineColors))
	for i, c := range routineColors {
		dot := lipgloss.NewStyle().Foreground(blockColor(c)).Render("●")
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", dot, c), string(c))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.formName),
			huh.NewInput().Title("Time (HH:MM)").Value(m.formTime),
			huh.NewInput().Title("Duration (minutes)").Value(m.formDuration),
			huh.NewSelect[string]().Title("Icon").Options(iconOptions...).Value(m.formIcon),
			huh.NewSelect[string]().Title("Repeat").Options(repeatOptions...).Value(m.formRepeat),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(m.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m routinesModel) updateForm(msg tea.Msg) (routinesModel, tea.Cmd) {
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
		return m.submitNewRoutine()
	}
	return m, cmd
}

func (m routinesModel) submitNewRoutine() (routinesModel, tea.Cmd) {
	if strings.TrimSpace(*m.formName) == "" {
		return m, func() tea.Msg {
			return statusMsg{text: "Routine name is required", isError: true}
		}
	}
	clock, err := timeutil.ParseClock(*m.formTime)
	if err != nil {
		return m, errorStatus(fmt.Errorf("bad time: %w", err))
	}
	duration, err := strconv.Atoi(strings.TrimSpace(*m.formDuration))
	if err != nil || duration <= 0 {
		return m, func() tea.Msg {
			return statusMsg{text: "Duration must be a positive number of minutes", isError: true}
		}
	}

	routine := model.DailyRoutine{
		Name:     strings.TrimSpace(*m.formName),
		Icon:     model.Icon(*m.formIcon),
		Time:     clock,
		Duration: duration,
		Repeat:   model.RepeatRule(*m.formRepeat),
		Color:    model.Color(*m.formColor),
	}
	if err := m.deps.Routines.Save(routine); err != nil {
		return m, errorStatus(err)
	}
	return m, tea.Batch(m.refresh(), func() tea.Msg {
		return statusMsg{text: "Routine created"}
	})
}

func (m routinesModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Routine")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	if m.viewingSuggestions {
		return m.renderSuggestions()
	}
	return m.renderList()
}

func (m routinesModel) renderList() string {
	w := m.width - 4
	title := titleStyle.Render("Routines")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(m.routines) == 0 {
		rows = append(rows, mutedStyle.Render("No routines yet. Press n to create one."))
	}

	for i, r := range m.routines {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dot := lipgloss.NewStyle().Foreground(blockColor(r.Color)).Render("●")
		row := style.Render(fmt.Sprintf("%s%s %s %s  %s, %s", cursor, dot, iconGlyph(r.Icon), r.Name, r.Time, formatMinutes(r.Duration)))
		row += mutedStyle.Render("  " + string(r.Repeat))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	hint := "  n: new  d: delete"
	if len(m.suggestions) > 0 {
		hint += fmt.Sprintf("  g: suggestions (%d)", len(m.suggestions))
	}
	rows = append(rows, mutedStyle.Render(hint))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m routinesModel) renderSuggestions() string {
	w := m.width - 4
	title := titleStyle.Render("Suggested Routines")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(m.suggestions) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing to suggest yet. Schedule more tasks at consistent times."))
	}

	for i, s := range m.suggestions {
		cursor := "  "
		style := normalItemStyle
		if i == m.suggestionCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dot := lipgloss.NewStyle().Foreground(blockColor(s.Color)).Render("●")
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s at %s", cursor, dot, s.Name, s.Time)))
		if s.Notes != "" {
			rows = append(rows, mutedStyle.Render("      "+s.Notes))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: add as routine  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
