// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-party-duel/pkg/content"
	"github.com/AccelByte/extend-party-duel/pkg/metrics"
)

// grantItem appends one unit of an item to a player's inventory.
func (s *Session) grantItem(ctx context.Context, playerID int64, itemID string) {
	s.inventory[playerID] = append(s.inventory[playerID], itemID)
	item, _ := s.repo.Item(itemID)
	logrus.Infof("group %d: player %d received item %s", s.group, playerID, itemID)
	s.send(ctx, fmt.Sprintf("%s you received an item: %s", s.msg.Mention(playerID), item.Name))
}

// ListItems renders a player's held items with display names.
func (s *Session) ListItems(ctx context.Context, playerID int64) string {
	msg := s.msg.Mention(playerID) + " your items:\n"
	items := s.repo.Items()
	for _, id := range s.inventory[playerID] {
		name := id
		if item, ok := items[id]; ok {
			name = item.Name
		}
		msg += fmt.Sprintf("%s (%s)\n", name, id)
	}
	return msg
}

// UseItem redeems one unit of a held item during the punishing stage.
func (s *Session) UseItem(ctx context.Context, playerID int64, itemID string, target int64) {
	if s.stage != StagePunishing {
		s.send(ctx, s.msg.Mention(playerID)+" it is not the punishment stage right now.")
		return
	}
	if !containsString(s.inventory[playerID], itemID) {
		s.send(ctx, s.msg.Mention(playerID)+" you do not have that item.")
		return
	}
	item, ok := s.repo.Item(itemID)
	if !ok {
		// Held unit of an item removed by a content reload.
		s.send(ctx, s.msg.Mention(playerID)+" that item no longer exists.")
		return
	}

	switch item.Kind {
	case content.ItemTransferPunishment:
		if !s.HasPlayer(target) {
			s.send(ctx, s.msg.Mention(playerID)+" that player is not in the game.")
			return
		}
		if _, ok := s.punishSet[playerID]; !ok {
			s.send(ctx, s.msg.Mention(playerID)+" you are not being punished.")
			return
		}
		s.consumeItem(playerID, itemID)
		delete(s.punishSet, playerID)
		s.punishSet[target] = struct{}{}
		logrus.Infof("group %d: player %d transferred punishment to %d", s.group, playerID, target)
		s.send(ctx, fmt.Sprintf("%s transferred their punishment to %s\n%s",
			s.msg.Mention(playerID), s.msg.Mention(target), s.punishStatus(ctx)))

	case content.ItemSharePunishment:
		if !s.HasPlayer(target) {
			s.send(ctx, s.msg.Mention(playerID)+" that player is not in the game.")
			return
		}
		if _, ok := s.punishSet[playerID]; !ok {
			s.send(ctx, s.msg.Mention(playerID)+" you are not being punished.")
			return
		}
		if target == playerID {
			s.send(ctx, s.msg.Mention(playerID)+" ???")
			return
		}
		s.consumeItem(playerID, itemID)
		s.punishSet[target] = struct{}{}
		logrus.Infof("group %d: player %d shared punishment with %d", s.group, playerID, target)
		s.send(ctx, fmt.Sprintf("%s invited %s to take the punishment together\n%s",
			s.msg.Mention(playerID), s.msg.Mention(target), s.punishStatus(ctx)))
	}
}

// Accept marks a punished player as done. When the punish set empties the
// round ends.
func (s *Session) Accept(ctx context.Context, playerID int64) {
	if s.stage != StagePunishing {
		s.send(ctx, s.msg.Mention(playerID)+" it is not the punishment stage right now.")
		return
	}
	if _, ok := s.punishSet[playerID]; !ok {
		s.send(ctx, s.msg.Mention(playerID)+" you are not on the punish list.")
		return
	}
	delete(s.punishSet, playerID)
	metrics.PunishmentsAcceptedTotal.Inc()
	if s.cfg.Recorder != nil {
		if err := s.cfg.Recorder.PunishmentAccepted(ctx, s.group, playerID); err != nil {
			logrus.Warnf("group %d: failed to record punishment for %d: %v", s.group, playerID, err)
		}
	}
	s.send(ctx, fmt.Sprintf("Player %s accepted the punishment.\n%s", s.profile(ctx, playerID), s.punishStatus(ctx)))
	if len(s.punishSet) == 0 {
		s.endRound(ctx)
	}
}

// consumeItem removes one unit of an item from a player's inventory.
func (s *Session) consumeItem(playerID int64, itemID string) {
	held := s.inventory[playerID]
	for i, id := range held {
		if id == itemID {
			s.inventory[playerID] = append(held[:i], held[i+1:]...)
			return
		}
	}
}
