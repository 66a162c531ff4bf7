package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coderno/planner/internal/model"
)

type pomodoroPhase int

const (
	pomodoroIdle pomodoroPhase = iota
	pomodoroWork
	pomodoroShortBreak
	pomodoroLongBreak
)

// pomodoroModel runs the countdown loop. Every finished phase is persisted
// through the service; completed work phases feed progress and rewards.
type pomodoroModel struct {
	deps   Deps
	width  int
	height int

	phase          pomodoroPhase
	completedCount int

	remaining time.Duration
	phaseEnd  time.Time

	sessionID string // persisted session backing the current phase
}

func newPomodoroModel(deps Deps) pomodoroModel {
	return pomodoroModel{deps: deps, phase: pomodoroIdle}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) running() bool {
	return p.phase != pomodoroIdle
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if p.running() {
			p.remaining = time.Until(p.phaseEnd)
			if p.remaining <= 0 {
				return p.advancePhase()
			}
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if p.phase == pomodoroIdle {
				p.completedCount = 0
				return p.startPhase(model.SessionWork)
			}
		case key.Matches(msg, keys.Stop):
			if p.running() {
				return p.cancel()
			}
		case key.Matches(msg, keys.Pause):
			// Skip break
			if p.phase == pomodoroShortBreak || p.phase == pomodoroLongBreak {
				return p.startPhase(model.SessionWork)
			}
		}
	}
	return p, nil
}

func (p pomodoroModel) startPhase(typ model.SessionType) (pomodoroModel, tea.Cmd) {
	session, err := p.deps.Pomodoro.Start("", typ)
	if err != nil {
		return p, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}
	p.sessionID = session.ID

	switch typ {
	case model.SessionShortBreak:
		p.phase = pomodoroShortBreak
	case model.SessionLongBreak:
		p.phase = pomodoroLongBreak
	default:
		p.phase = pomodoroWork
	}

	duration := time.Duration(session.Duration) * time.Minute
	p.remaining = duration
	p.phaseEnd = time.Now().Add(duration)
	return p, nil
}

func (p pomodoroModel) advancePhase() (pomodoroModel, tea.Cmd) {
	finished := p.phase
	if err := p.deps.Pomodoro.Complete(p.sessionID); err != nil {
		return p, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}

	if finished == pomodoroWork {
		p.completedCount++
		next := p.deps.Pomodoro.NextBreak(p.completedCount)
		p, _ = p.startPhase(next)
		return p, func() tea.Msg {
			return pomodoroDoneMsg{sessionType: model.SessionWork}
		}
	}

	// Break over, back to work.
	p, _ = p.startPhase(model.SessionWork)
	return p, func() tea.Msg {
		return statusMsg{text: "Back to work \a"}
	}
}

func (p pomodoroModel) cancel() (pomodoroModel, tea.Cmd) {
	p.phase = pomodoroIdle
	p.remaining = 0
	p.sessionID = ""
	return p, func() tea.Msg {
		return statusMsg{text: "Pomodoro stopped"}
	}
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	title := titleStyle.Render("Pomodoro")

	workDuration := time.Duration(p.deps.Config.Pomodoro.WorkMinutes) * time.Minute

	var timeDisplay, phaseLabel string
	switch p.phase {
	case pomodoroIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatCountdown(workDuration))
		phaseLabel = mutedStyle.Render("Ready to start")
	case pomodoroWork:
		timeDisplay = errorStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(p.remaining))
		phaseLabel = errorStyle.Bold(true).Render("WORK")
	case pomodoroShortBreak:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(p.remaining))
		phaseLabel = successStyle.Bold(true).Render("SHORT BREAK")
	case pomodoroLongBreak:
		timeDisplay = highlightStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(p.remaining))
		phaseLabel = highlightStyle.Bold(true).Render("LONG BREAK")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		p.renderProgress(),
	)

	var controls string
	switch p.phase {
	case pomodoroIdle:
		controls = mutedStyle.Render("s: start  q: quit")
	case pomodoroWork:
		controls = mutedStyle.Render("x: stop")
	default:
		controls = mutedStyle.Render("space: skip break  x: stop")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderProgress() string {
	cycle := p.deps.Config.Pomodoro.SessionsPerCycle
	inCycle := p.completedCount % cycle
	if inCycle == 0 && p.completedCount > 0 && p.phase == pomodoroLongBreak {
		inCycle = cycle
	}

	var parts []string
	for i := 0; i < cycle; i++ {
		switch {
		case i < inCycle:
			parts = append(parts, successStyle.Render("●"))
		case i == inCycle && p.phase == pomodoroWork:
			parts = append(parts, errorStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	progress := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d completed", p.completedCount))
	return progress + counter
}
