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
)

// rewardsModel lists the rewards with progress toward each threshold.
type rewardsModel struct {
	deps   Deps
	width  int
	height int

	rewards  []model.Reward
	progress map[string]int
	cursor   int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName        *string
	formDescription *string
	formSessions    *string
}

func newRewardsModel(deps Deps) rewardsModel {
	name, desc, sessions := "", "", "4"
	return rewardsModel{
		deps:            deps,
		formName:        &name,
		formDescription: &desc,
		formSessions:    &sessions,
	}
}

func (m *rewardsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m rewardsModel) refresh() tea.Cmd {
	svc := m.deps.Rewards
	return func() tea.Msg {
		pending, err := svc.Pending()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load rewards: %v", err), isError: true}
		}
		unlocked, err := svc.Unlocked()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load rewards: %v", err), isError: true}
		}

		rewards := append(pending, unlocked...)
		progress := make(map[string]int, len(rewards))
		for _, r := range rewards {
			if pct, err := svc.Progress(r); err == nil {
				progress[r.ID] = pct
			}
		}
		return rewardsDataMsg{rewards: rewards, progress: progress}
	}
}

func (m rewardsModel) update(msg tea.Msg) (rewardsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case rewardsDataMsg:
		m.rewards = msg.rewards
		m.progress = msg.progress
		if m.cursor >= len(m.rewards) {
			m.cursor = max(0, len(m.rewards)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rewards)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showNewRewardForm()
		case key.Matches(msg, keys.Enter):
			if len(m.rewards) > 0 && !m.rewards[m.cursor].Unlocked {
				if err := m.deps.Rewards.Unlock(m.rewards[m.cursor].ID); err != nil {
					return m, errorStatus(err)
				}
				return m, tea.Batch(m.refresh(), func() tea.Msg {
					return statusMsg{text: "Reward unlocked 🎉"}
				})
			}
		}
	}
	return m, nil
}

func (m rewardsModel) showNewRewardForm() (rewardsModel, tea.Cmd) {
	*m.formName = ""
	*m.formDescription = ""
	*m.formSessions = "4"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.formName),
			huh.NewInput().Title("Description").Value(m.formDescription),
			huh.NewInput().Title("Work sessions required").Value(m.formSessions),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m rewardsModel) updateForm(msg tea.Msg) (rewardsModel, tea.Cmd) {
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
		sessions, err := strconv.Atoi(strings.TrimSpace(*m.formSessions))
		if err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "Sessions must be a number", isError: true}
			}
		}
		if _, err := m.deps.Rewards.Create(*m.formName, *m.formDescription, sessions); err != nil {
			return m, errorStatus(err)
		}
		return m, tea.Batch(m.refresh(), func() tea.Msg {
			return statusMsg{text: "Reward created"}
		})
	}
	return m, cmd
}

func (m rewardsModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Reward")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4
	title := titleStyle.Render("Rewards")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(m.rewards) == 0 {
		rows = append(rows, mutedStyle.Render("No rewards yet. Press n to set one up."))
	}

	for i, r := range m.rewards {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		var status string
		if r.Unlocked {
			status = successStyle.Render("unlocked 🏆")
		} else {
			status = mutedStyle.Render(fmt.Sprintf("%d%% of %d session(s)", m.progress[r.ID], r.RequiredSessions))
		}

		row := style.Render(fmt.Sprintf("%s%s", cursor, r.Name)) + "  " + status
		rows = append(rows, row)
		if r.Description != "" {
			rows = append(rows, mutedStyle.Render("      "+r.Description))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: unlock manually"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
