package repo

import (
	"github.com/coderno/planner/internal/kv"
	"github.com/coderno/planner/internal/model"
)

// Rewards owns the reward collection.
type Rewards struct {
	store *kv.Store
}

func NewRewards(store *kv.Store) *Rewards {
	return &Rewards{store: store}
}

func (r *Rewards) All() ([]model.Reward, error) {
	var rewards []model.Reward
	if err := loadJSON(r.store, keyRewards, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

// Save appends the reward to the collection.
func (r *Rewards) Save(reward model.Reward) error {
	rewards, err := r.All()
	if err != nil {
		return err
	}
	rewards = append(rewards, reward)
	return saveJSON(r.store, keyRewards, rewards)
}

// Unlock marks the reward with the given id as unlocked; ErrNotFound if
// absent.
func (r *Rewards) Unlock(id string) error {
	rewards, err := r.All()
	if err != nil {
		return err
	}
	for i := range rewards {
		if rewards[i].ID == id {
			rewards[i].Unlocked = true
			return saveJSON(r.store, keyRewards, rewards)
		}
	}
	return ErrNotFound
}

// Unlocked returns the rewards already earned.
func (r *Rewards) Unlocked() ([]model.Reward, error) {
	return r.filtered(true)
}

// Pending returns the rewards still locked.
func (r *Rewards) Pending() ([]model.Reward, error) {
	return r.filtered(false)
}

func (r *Rewards) filtered(unlocked bool) ([]model.Reward, error) {
	rewards, err := r.All()
	if err != nil {
		return nil, err
	}
	var out []model.Reward
	for _, reward := range rewards {
		if reward.Unlocked == unlocked {
			out = append(out, reward)
		}
	}
	return out, nil
}
