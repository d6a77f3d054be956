// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import (
	"context"

	"github.com/sirupsen/logrus"
)

// countdownKind identifies the revert action a countdown entry performs when
// it expires. Entries are plain descriptors, interpreted by the scheduler, so
// the countdown list stays inspectable and holds no live references.
type countdownKind int

const (
	countdownClearMaxLoser countdownKind = iota
	countdownClearCategoryLimit
	countdownClearScoreBonus
)

// countdown is a deferred revert with a rounds-remaining counter and an
// optional announcement sent when it fires.
type countdown struct {
	rounds int
	kind   countdownKind
	target int64
	note   string
}

// runCountdowns decrements every entry by one round and fires the revert of
// entries that reach zero, exactly once. Surviving entries carry over.
func (s *Session) runCountdowns(ctx context.Context) {
	remaining := s.countdowns[:0]
	for _, c := range s.countdowns {
		c.rounds--
		if c.rounds > 0 {
			remaining = append(remaining, c)
			continue
		}
		logrus.Debugf("group %d: countdown fired: kind=%d target=%d", s.group, c.kind, c.target)
		switch c.kind {
		case countdownClearMaxLoser:
			s.maxIsLoser = false
		case countdownClearCategoryLimit:
			delete(s.categoryLimits, c.target)
		case countdownClearScoreBonus:
			delete(s.scoreBonus, c.target)
		}
		if c.note != "" {
			s.send(ctx, c.note)
		}
	}
	s.countdowns = remaining
}
