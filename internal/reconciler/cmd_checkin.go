package reconciler

import (
	"context"
	"fmt"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/state"
)

// CheckIn records the daily check-in. The authority owns the calendar: it
// verifies the timestamp, rejects a same-day repeat and returns the updated
// streak. The streak day then indexes the reward table; reward grants that
// fail are logged and skipped, the check-in itself stays recorded.
func (e *Engine) CheckIn(ctx context.Context) (*domain.CheckInResult, error) {
	player, err := e.player()
	if err != nil {
		return nil, err
	}

	streak, err := e.authority.CheckIn(ctx, player.ID)
	if err != nil {
		return nil, wrapRemote("check-in", err)
	}

	reward := e.rewardForDay(ctx, streak.Current)
	if reward.Xenocoins > 0 {
		if _, err := e.AdjustCurrency(ctx, domain.CurrencyXenocoins, reward.Xenocoins); err != nil {
			e.logger.Error("check-in reward skipped", "reward", "xenocoins", "day", streak.Current, "error", err)
		}
	}
	if reward.Cash > 0 {
		if _, err := e.AdjustCurrency(ctx, domain.CurrencyCash, reward.Cash); err != nil {
			e.logger.Error("check-in reward skipped", "reward", "cash", "day", streak.Current, "error", err)
		}
	}

	e.container.Apply(func(s *state.Snapshot) {
		s.CheckIn = streak
	})

	e.notifier.Emit("success", fmt.Sprintf("Checked in, day %d streak", streak.Current))
	return &domain.CheckInResult{
		OK:       true,
		Message:  fmt.Sprintf("checked in, streak day %d", streak.Current),
		Streak:   streak.Current,
		Reward:   reward,
		PlayerID: player.ID,
	}, nil
}

// rewardForDay resolves the streak day against the reward table. Streaks
// past the table wrap onto its last entry; an empty table grants nothing.
func (e *Engine) rewardForDay(ctx context.Context, day int) domain.CheckInReward {
	table, err := e.catalog.CheckInRewards(ctx)
	if err != nil {
		e.logger.Warn("check-in reward table unavailable", "error", err)
		return domain.CheckInReward{Day: day}
	}
	if len(table) == 0 {
		return domain.CheckInReward{Day: day}
	}
	for _, r := range table {
		if r.Day == day {
			return r
		}
	}
	last := table[len(table)-1]
	if day > last.Day {
		return last
	}
	return domain.CheckInReward{Day: day}
}
