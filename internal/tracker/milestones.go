package tracker

import (
	"context"
	"strconv"
)

// checkMilestones claims every configured milestone the score has
// reached. The claim is an atomic set-if-absent, so a milestone is
// recorded once per user ever; under concurrent crossings the claim
// stays single but the notification is at-least-once by design.
func (t *tracker) checkMilestones(ctx context.Context, userID string, currentScore int64) {
	for _, milestone := range t.cfg.Milestones {
		if currentScore < int64(milestone) {
			continue
		}
		claimed, err := t.store.SetNX(ctx, milestoneKey(userID, milestone), strconv.FormatInt(t.now().Unix(), 10), 0)
		if err != nil {
			t.log.Warn("milestone claim failed", "user_id", userID, "milestone", milestone, "error", err)
			continue
		}
		if !claimed {
			continue
		}

		t.publish(ctx, userID, EventMilestoneAchieved, map[string]any{
			"milestone":     milestone,
			"current_score": currentScore,
		})
		t.log.Info("milestone achieved", "user_id", userID, "milestone", milestone)
	}
}
