// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// RecordScore draws a score for a player during the scoring stage.
//
// The raw draw is redrawn while it collides with the running minimum or
// maximum of already-recorded scores; an active score bonus is applied to the
// stored value afterwards, clamped to [1,100]. Tie-avoidance is on the raw
// draw only, so a bonus-adjusted value may still match an extreme.
func (s *Session) RecordScore(ctx context.Context, playerID int64) {
	if s.stage != StageDistributing {
		s.send(ctx, s.msg.Mention(playerID)+" the game has not started, or scoring is already over.")
		return
	}
	if _, ok := s.unscored[playerID]; !ok {
		s.send(ctx, s.msg.Mention(playerID)+" you have already rolled this round.")
		return
	}

	draw := s.cfg.Roller.Roll()
	for len(s.scores) > 0 && (draw == s.minScore() || draw == s.maxScore()) {
		draw = s.cfg.Roller.Roll()
	}

	val := draw
	if bonus, ok := s.scoreBonus[playerID]; ok {
		val = clampScore(draw + bonus)
		s.send(ctx, fmt.Sprintf("%s raw roll: %d, adjusted roll: %d", s.msg.Mention(playerID), draw, val))
	}

	var banter string
	switch {
	case val > 70:
		banter = "looking good!"
	case val < 30:
		banter = "that looks rough..."
	default:
		banter = "could go either way."
	}

	s.scores[playerID] = val
	delete(s.unscored, playerID)
	logrus.Debugf("group %d: player %d rolled %d (raw %d)", s.group, playerID, val, draw)

	ref := s.send(ctx, fmt.Sprintf("%s your score is %d, %s\n%s",
		s.msg.Mention(playerID), val, banter, s.scoringStatus(ctx)))
	if s.lastRollRef != 0 {
		// Retraction of the superseded roll message is best-effort.
		if err := s.msg.DeleteMessage(ctx, s.lastRollRef); err != nil {
			logrus.Debugf("group %d: failed to retract message %d: %v", s.group, s.lastRollRef, err)
		}
	}
	s.lastRollRef = ref

	if len(s.unscored) == 0 {
		s.resolveRound(ctx)
	}
}

// SkipRemaining clears the unscored set and resolves the round as if everyone
// had rolled. At least one recorded score is required.
func (s *Session) SkipRemaining(ctx context.Context) {
	if s.stage != StageDistributing {
		return
	}
	if len(s.unscored) == 0 {
		return
	}
	if len(s.scores) < 1 {
		s.send(ctx, "At least one player must roll before skipping!")
		return
	}
	s.unscored = make(map[int64]struct{})
	s.resolveRound(ctx)
}

// NotifyUnscored mentions every player who has not rolled yet.
func (s *Session) NotifyUnscored(ctx context.Context) {
	if s.stage != StageDistributing {
		s.send(ctx, "Scoring is not in progress right now!")
		return
	}
	if len(s.unscored) == 0 {
		return
	}
	msg := ""
	for _, p := range sortedPlayers(s.unscored) {
		msg += s.msg.Mention(p) + "\n"
	}
	msg += "\nPlease roll now!"
	s.send(ctx, msg)
}

// resolveRound closes the scoring stage: computes the extremes, builds the
// punish set, picks the selector and moves to punishment selection.
func (s *Session) resolveRound(ctx context.Context) {
	msg := "Scoring is over!\n" + s.scoreBoard(ctx)

	minP, maxP := s.extremes()
	msg += fmt.Sprintf("\nLowest score:\n%s %d\n\nHighest score:\n%s %d\n\n",
		s.profile(ctx, minP), s.scores[minP], s.profile(ctx, maxP), s.scores[maxP])

	s.punishSet = make(map[int64]struct{}, len(s.persistentLosers))
	for p := range s.persistentLosers {
		s.punishSet[p] = struct{}{}
	}
	if _, ok := s.persistentLosers[minP]; ok {
		delete(s.persistentLosers, minP)
		s.send(ctx, fmt.Sprintf("%s hit the lowest score and graduates from persistent punishment next round.", s.profile(ctx, minP)))
	}
	if len(s.carryPunish) > 0 {
		for p := range s.carryPunish {
			s.punishSet[p] = struct{}{}
		}
		s.carryPunish = make(map[int64]struct{})
		logrus.Infof("group %d: carried punish set applied", s.group)
	} else if s.maxIsLoser {
		s.punishSet[maxP] = struct{}{}
	} else {
		s.punishSet[minP] = struct{}{}
	}
	logrus.Infof("group %d: punish set %v", s.group, sortedPlayers(s.punishSet))

	s.selector = minP
	msg += fmt.Sprintf("The lowest scorer (%s) will now pick the punishment category:\n", s.msg.Mention(minP))
	msg += s.categoryList()
	msg += "Send \"pick <category>\" to choose."
	s.stage = StageSelecting
	s.send(ctx, msg)
	s.lastRollRef = 0
}

// extremes returns the minimum and maximum scorers. Ties break toward the
// lower player ID: the score map is scanned in sorted-ID order, so the result
// is deterministic within a resolution.
func (s *Session) extremes() (minP, maxP int64) {
	ids := make([]int64, 0, len(s.scores))
	for p := range s.scores {
		ids = append(ids, p)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	minP, maxP = ids[0], ids[0]
	for _, p := range ids[1:] {
		if s.scores[p] < s.scores[minP] {
			minP = p
		}
		if s.scores[p] > s.scores[maxP] {
			maxP = p
		}
	}
	return minP, maxP
}

// categoryList renders the available punishment categories, sorted by ID.
func (s *Session) categoryList() string {
	cats := s.repo.Categories()
	ids := make([]string, 0, len(cats))
	for id := range cats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	msg := ""
	for _, id := range ids {
		msg += fmt.Sprintf("%s (%s)\n", cats[id], id)
	}
	return msg
}

func (s *Session) minScore() int {
	min := 101
	for _, v := range s.scores {
		if v < min {
			min = v
		}
	}
	return min
}

func (s *Session) maxScore() int {
	max := 0
	for _, v := range s.scores {
		if v > max {
			max = v
		}
	}
	return max
}

func clampScore(v int) int {
	if v > 100 {
		return 100
	}
	if v < 1 {
		return 1
	}
	return v
}
