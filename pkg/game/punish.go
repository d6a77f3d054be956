// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-party-duel/pkg/content"
)

// SelectCategory lets the selector pick a punishment category. With reselect
// set it may also be called during the punishing stage, at the cost of
// deferring the current punish set to the next round.
func (s *Session) SelectCategory(ctx context.Context, playerID int64, categoryID string, reselect bool) {
	if !(s.stage == StageSelecting || (s.stage == StagePunishing && reselect)) {
		s.send(ctx, "It is not the punishment selection stage right now.")
		return
	}
	if playerID != s.selector {
		s.send(ctx, "You are not the one picking the punishment.")
		return
	}
	if limits, ok := s.categoryLimits[playerID]; ok && !containsString(limits, categoryID) {
		s.send(ctx, "You are not allowed to pick this category.")
		return
	}
	cat, ok := s.repo.Category(categoryID)
	if !ok {
		s.send(ctx, "Please enter a valid category ID.")
		return
	}

	msg := fmt.Sprintf("Punishment category selected: %s (%s)\n", cat.Name, categoryID)
	if reselect {
		s.carryPunish = make(map[int64]struct{}, len(s.punishSet))
		for p := range s.punishSet {
			s.carryPunish[p] = struct{}{}
		}
		msg += "The punishment was re-picked; the cost is that every punished player is punished again next round.\n"
	}
	msg += "The following players will take the punishment:\n"
	for _, p := range sortedPlayers(s.punishSet) {
		msg += fmt.Sprintf("%s %s\n", s.profile(ctx, p), s.msg.Mention(p))
	}

	rule := cat.Rules[s.cfg.Roller.Pick(len(cat.Rules))]
	logrus.Infof("group %d: drew rule kind=%s content=%q from category %s", s.group, rule.Kind, rule.Content, categoryID)
	msg += "The punishment is:\n"

	switch rule.Kind {
	case content.RuleSimple:
		msg += rule.Content + "\n"
		msg += "Send \"accept\" once you are done.\nOr send \"use <item> <target>\" to use an item.\nOr send \"repick <category>\" to re-pick the punishment."
		s.send(ctx, msg)
		s.stage = StagePunishing

	case content.RuleItem:
		item, _ := s.repo.Item(rule.Content)
		msg += "Every punished player receives the item: " + item.Name
		for _, p := range sortedPlayers(s.punishSet) {
			s.grantItem(ctx, p, rule.Content)
		}
		s.send(ctx, msg)
		s.endRound(ctx)

	case content.RuleStatusEffect:
		effect, _ := s.repo.Effect(rule.Content)
		msg += effect.Name
		s.send(ctx, msg)
		for _, p := range sortedPlayers(s.players) {
			s.applyEffect(ctx, p, effect)
		}
		s.endRound(ctx)
	}
}

// applyEffect applies one status effect to one enrolled player. Countdown
// durations are enqueued with one extra round because the applying command
// itself runs the round-end transition, which consumes the first decrement.
func (s *Session) applyEffect(ctx context.Context, playerID int64, effect content.Effect) {
	switch effect.Kind {
	case content.EffectMaxIsLoser:
		s.maxIsLoser = true
		s.countdowns = append(s.countdowns, countdown{
			rounds: effect.Rounds + 1,
			kind:   countdownClearMaxLoser,
		})

	case content.EffectPersistentLoser:
		s.persistentLosers[playerID] = struct{}{}

	case content.EffectCategoryRestriction:
		s.categoryLimits[playerID] = append([]string(nil), effect.Categories...)
		s.countdowns = append(s.countdowns, countdown{
			rounds: effect.Rounds + 1,
			kind:   countdownClearCategoryLimit,
			target: playerID,
			note: fmt.Sprintf("%s's category restriction (%s) has been lifted.",
				s.msg.Mention(playerID), strings.Join(effect.Categories, "|")),
		})

	case content.EffectCarryNextRound:
		s.carryPunish = make(map[int64]struct{}, len(s.punishSet))
		for p := range s.punishSet {
			s.carryPunish[p] = struct{}{}
		}

	case content.EffectScoreBonus:
		s.scoreBonus[playerID] = effect.Value
		s.countdowns = append(s.countdowns, countdown{
			rounds: effect.Rounds + 1,
			kind:   countdownClearScoreBonus,
			target: playerID,
			note: fmt.Sprintf("%s's per-round score offset of %d has been lifted.",
				s.msg.Mention(playerID), effect.Value),
		})
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
