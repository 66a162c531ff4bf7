package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/coderno/planner/internal/model"
	"github.com/coderno/planner/internal/repo"
)

// RewardService manages the rewards the user sets up for themselves.
// Unlocking normally happens through the pomodoro service; the manual
// unlock exists for the UI.
type RewardService struct {
	rewards  *repo.Rewards
	sessions *repo.Pomodoros
}

func NewRewardService(rewards *repo.Rewards, sessions *repo.Pomodoros) *RewardService {
	return &RewardService{rewards: rewards, sessions: sessions}
}

// Create stores a new locked reward.
func (s *RewardService) Create(name, description string, requiredSessions int) (model.Reward, error) {
	if strings.TrimSpace(name) == "" {
		return model.Reward{}, ErrEmptyName
	}
	if requiredSessions <= 0 {
		return model.Reward{}, ErrInvalidThreshold
	}

	reward := model.Reward{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(name),
		Description:      strings.TrimSpace(description),
		RequiredSessions: requiredSessions,
	}
	if err := s.rewards.Save(reward); err != nil {
		return model.Reward{}, fmt.Errorf("save reward: %w", err)
	}
	return reward, nil
}

// Pending returns the rewards still locked.
func (s *RewardService) Pending() ([]model.Reward, error) {
	return s.rewards.Pending()
}

// Unlocked returns the rewards already earned.
func (s *RewardService) Unlocked() ([]model.Reward, error) {
	return s.rewards.Unlocked()
}

// Unlock marks the reward earned; repo.ErrNotFound for unknown ids.
func (s *RewardService) Unlock(id string) error {
	return s.rewards.Unlock(id)
}

// Progress returns how far the completed work-session count has come toward
// the reward's threshold, as a percentage capped at 100.
func (s *RewardService) Progress(reward model.Reward) (int, error) {
	if reward.Unlocked || reward.RequiredSessions <= 0 {
		return 100, nil
	}
	sessions, err := s.sessions.All()
	if err != nil {
		return 0, err
	}
	percent := countCompletedWork(sessions) * 100 / reward.RequiredSessions
	if percent > 100 {
		percent = 100
	}
	return percent, nil
}
