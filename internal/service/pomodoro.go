package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coderno/planner/internal/config"
	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/progress"
	"github.com/coderno/planner/internal/repo"
	"github.com/coderno/planner/internal/timeutil"
)

// PomodoroService starts and completes pomodoro sessions. Completed work
// sessions feed the progress engine and unlock rewards whose threshold is
// reached; breaks count toward nothing.
type PomodoroService struct {
	sessions *repo.Pomodoros
	rewards  *repo.Rewards
	engine   *progress.Engine
	cfg      config.PomodoroConfig
	now      func() time.Time
}

func NewPomodoroService(sessions *repo.Pomodoros, rewards *repo.Rewards, engine *progress.Engine, cfg config.PomodoroConfig) *PomodoroService {
	return &PomodoroService{sessions: sessions, rewards: rewards, engine: engine, cfg: cfg, now: time.Now}
}

// WithClock overrides the service's notion of now.
func (s *PomodoroService) WithClock(now func() time.Time) *PomodoroService {
	s.now = now
	return s
}

// Duration returns the configured length in minutes for a session type.
func (s *PomodoroService) Duration(typ model.SessionType) int {
	switch typ {
	case model.SessionShortBreak:
		return s.cfg.ShortBreakMinutes
	case model.SessionLongBreak:
		return s.cfg.LongBreakMinutes
	}
	return s.cfg.WorkMinutes
}

// NextBreak picks the break type that follows the current work session:
// a long break after every full cycle, a short one otherwise.
func (s *PomodoroService) NextBreak(completedToday int) model.SessionType {
	if completedToday > 0 && completedToday%s.cfg.SessionsPerCycle == 0 {
		return model.SessionLongBreak
	}
	return model.SessionShortBreak
}

// Start records a new session of the given type. TaskID may be empty for
// untargeted sessions and breaks.
func (s *PomodoroService) Start(taskID string, typ model.SessionType) (model.PomodoroSession, error) {
	session := model.PomodoroSession{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		StartTime: s.now().Format(time.RFC3339),
		Duration:  s.Duration(typ),
		Type:      typ,
	}
	if err := s.sessions.Save(session); err != nil {
		return model.PomodoroSession{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Complete marks the session finished. For work sessions it records the
// focus minutes in the progress engine and unlocks every pending reward
// whose session threshold the new total reaches. Completing an already
// completed session is a no-op.
func (s *PomodoroService) Complete(id string) error {
	sessions, err := s.sessions.All()
	if err != nil {
		return err
	}
	var session *model.PomodoroSession
	for i := range sessions {
		if sessions[i].ID == id {
			session = &sessions[i]
			break
		}
	}
	if session == nil {
		return repo.ErrNotFound
	}
	if session.Completed {
		return nil
	}

	session.Completed = true
	if err := s.sessions.Update(*session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if session.Type != model.SessionWork {
		return nil
	}

	if err := s.engine.TrackPomodoroSession(session.Duration); err != nil {
		return err
	}
	return s.unlockEarned()
}

// unlockEarned unlocks every pending reward whose threshold the total
// completed work-session count now meets.
func (s *PomodoroService) unlockEarned() error {
	total, err := s.CompletedTotal()
	if err != nil {
		return err
	}
	pending, err := s.rewards.Pending()
	if err != nil {
		return err
	}
	for _, reward := range pending {
		if reward.RequiredSessions <= total {
			if err := s.rewards.Unlock(reward.ID); err != nil {
				return fmt.Errorf("unlock reward: %w", err)
			}
		}
	}
	return nil
}

// CompletedToday counts today's completed work sessions.
func (s *PomodoroService) CompletedToday() (int, error) {
	sessions, err := s.sessions.ByDate(timeutil.DateOf(s.now()))
	if err != nil {
		return 0, err
	}
	return countCompletedWork(sessions), nil
}

// CompletedTotal counts all completed work sessions ever recorded.
func (s *PomodoroService) CompletedTotal() (int, error) {
	sessions, err := s.sessions.All()
	if err != nil {
		return 0, err
	}
	return countCompletedWork(sessions), nil
}

func countCompletedWork(sessions []model.PomodoroSession) int {
	n := 0
	for _, session := range sessions {
		if session.Completed && session.Type == model.SessionWork {
			n++
		}
	}
	return n
}
