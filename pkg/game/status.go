// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import (
	"context"
	"fmt"
	"sort"
)

// scoreBoard renders recorded scores, ascending.
func (s *Session) scoreBoard(ctx context.Context) string {
	ids := make([]int64, 0, len(s.scores))
	for p := range s.scores {
		ids = append(ids, p)
	}
	sort.Slice(ids, func(i, j int) bool {
		if s.scores[ids[i]] != s.scores[ids[j]] {
			return s.scores[ids[i]] < s.scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	msg := "Player scores:\n"
	for _, p := range ids {
		msg += fmt.Sprintf("%s: %d\n", s.profile(ctx, p), s.scores[p])
	}
	return msg
}

// punishStatus renders the players who have not accepted their punishment.
func (s *Session) punishStatus(ctx context.Context) string {
	msg := "Players yet to accept punishment:\n"
	for _, p := range sortedPlayers(s.punishSet) {
		msg += s.profile(ctx, p) + "\n"
	}
	return msg
}

// scoringStatus renders the scoreboard plus the players still to roll.
func (s *Session) scoringStatus(ctx context.Context) string {
	msg := s.scoreBoard(ctx)
	msg += "Yet to roll:\n"
	for _, p := range sortedPlayers(s.unscored) {
		msg += s.profile(ctx, p) + "\n"
	}
	return msg
}

// StatusSummary renders the overall session status: stage, roster, and the
// stage-specific block.
func (s *Session) StatusSummary(ctx context.Context) string {
	msg := fmt.Sprintf("Current stage: %s\n%d players enrolled:\n\n", s.stage, len(s.players))
	for _, p := range sortedPlayers(s.players) {
		msg += s.profile(ctx, p) + "\n"
	}
	if s.stage == StageDistributing {
		msg += s.scoringStatus(ctx)
	}
	if s.stage == StagePunishing {
		msg += s.punishStatus(ctx)
	}
	return msg
}
