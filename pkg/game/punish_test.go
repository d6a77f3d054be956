// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import (
	"context"
	"testing"

	"github.com/AccelByte/extend-party-duel/pkg/content"
)

// playRound rolls the scripted scores for the given players in order,
// leaving the session in the selecting stage.
func playRound(t *testing.T, ctx context.Context, sess *Session, players ...int64) {
	t.Helper()
	startRound(t, ctx, sess, players...)
	for _, p := range players {
		sess.RecordScore(ctx, p)
	}
	if sess.Stage() != StageSelecting {
		t.Fatalf("Expected stage %v after all rolls, got %v", StageSelecting, sess.Stage())
	}
}

func TestSelectCategorySimple(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	sess, msg, _ := newTestSession(roller)
	playRound(t, ctx, sess, 1, 2)

	sess.SelectCategory(ctx, 1, "truth", false)
	if sess.Stage() != StagePunishing {
		t.Errorf("Expected stage %v, got %v", StagePunishing, sess.Stage())
	}
	if !msg.contains("Punishment category selected: Truth (truth)") {
		t.Error("Expected category announcement")
	}
	if !msg.contains("Answer one question honestly.") {
		t.Error("Expected punishment instructions")
	}
	if !msg.contains("player1 @1") {
		t.Error("Expected punished roster to list the lowest scorer")
	}
}

func TestSelectCategoryGuards(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	sess, msg, _ := newTestSession(roller)

	sess.Join(ctx, 1)
	sess.Join(ctx, 2)
	sess.SelectCategory(ctx, 1, "truth", false)
	if !msg.contains("not the punishment selection stage") {
		t.Error("Expected stage rejection before a round")
	}

	playRound(t, ctx, sess, 1, 2)

	sess.SelectCategory(ctx, 2, "truth", false)
	if !msg.contains("not the one picking") {
		t.Error("Expected non-selector rejection")
	}
	if sess.Stage() != StageSelecting {
		t.Error("Expected stage unchanged after rejection")
	}

	sess.SelectCategory(ctx, 1, "nope", false)
	if !msg.contains("valid category ID") {
		t.Error("Expected unknown-category rejection")
	}

	// A plain pick during the punishing stage is rejected; only a repick is
	// allowed there.
	sess.SelectCategory(ctx, 1, "truth", false)
	sess.SelectCategory(ctx, 1, "dare", false)
	if msg.last() != "It is not the punishment selection stage right now." {
		t.Errorf("Expected plain pick rejected during punishing, got %q", msg.last())
	}
}

func TestCategoryRestrictionBlocksPick(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	sess, msg, _ := newTestSession(roller)
	playRound(t, ctx, sess, 1, 2)
	sess.categoryLimits[1] = []string{"dare"}

	sess.SelectCategory(ctx, 1, "truth", false)
	if !msg.contains("not allowed to pick this category") {
		t.Error("Expected restriction rejection")
	}

	sess.SelectCategory(ctx, 1, "dare", false)
	if sess.Stage() != StagePunishing {
		t.Error("Expected allowed category to proceed")
	}
}

func TestRepickCarriesPunishSet(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60, 70, 80}}
	sess, msg, _ := newTestSession(roller)
	playRound(t, ctx, sess, 1, 2)

	sess.SelectCategory(ctx, 1, "truth", false)
	sess.SelectCategory(ctx, 1, "dare", true)
	if sess.Stage() != StagePunishing {
		t.Fatalf("Expected stage %v after repick, got %v", StagePunishing, sess.Stage())
	}
	if !msg.contains("punished again next round") {
		t.Error("Expected repick cost announcement")
	}

	sess.Accept(ctx, 1)
	if sess.Stage() != StageWaiting {
		t.Fatalf("Expected round end after accept, got %v", sess.Stage())
	}

	// Player 1 scores highest next round yet is punished again via the carry.
	playRound(t, ctx, sess, 2, 1)
	sess.SelectCategory(ctx, 2, "truth", false)
	if !msg.contains("player1 @1") {
		t.Error("Expected carried player in the punished roster")
	}
	if _, ok := sess.punishSet[2]; ok {
		t.Error("Expected carry to override the minimum scorer")
	}
}

func TestItemRuleGrantsAndEndsRound(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	sess, msg, _ := newTestSession(roller)
	playRound(t, ctx, sess, 1, 2)

	sess.SelectCategory(ctx, 1, "loot", false)
	if sess.Stage() != StageWaiting {
		t.Errorf("Expected item rule to end the round, got %v", sess.Stage())
	}
	if !msg.contains("@1 you received an item: Scapegoat") {
		t.Error("Expected item grant announcement")
	}
	if !containsString(sess.inventory[1], "transfer") {
		t.Error("Expected item in punished player's inventory")
	}
}

func TestStatusEffectAppliesToAllPlayers(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	sess, _, repo := newTestSession(roller)
	repo.effects["blessing"] = content.Effect{Name: "Blessing", Kind: content.EffectScoreBonus, Rounds: 2, Value: 5}
	repo.categories["fx"] = content.Category{Name: "Effects", Rules: []content.Rule{
		{Kind: content.RuleStatusEffect, Content: "blessing"},
	}}
	playRound(t, ctx, sess, 1, 2)

	sess.SelectCategory(ctx, 1, "fx", false)
	if sess.Stage() != StageWaiting {
		t.Errorf("Expected status-effect rule to end the round, got %v", sess.Stage())
	}
	if sess.scoreBonus[1] != 5 || sess.scoreBonus[2] != 5 {
		t.Errorf("Expected bonus applied to every player, got %v", sess.scoreBonus)
	}
}

func TestMaxIsLoserPunishesHighestScorer(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60, 30, 90}}
	sess, msg, repo := newTestSession(roller)
	repo.effects["crown"] = content.Effect{Name: "Crown", Kind: content.EffectMaxIsLoser, Rounds: 1}
	repo.categories["fx"] = content.Category{Name: "Effects", Rules: []content.Rule{
		{Kind: content.RuleStatusEffect, Content: "crown"},
	}}

	playRound(t, ctx, sess, 1, 2)
	sess.SelectCategory(ctx, 1, "fx", false)

	playRound(t, ctx, sess, 1, 2)
	if _, ok := sess.punishSet[2]; !ok {
		t.Error("Expected highest scorer punished under max-is-loser")
	}
	if _, ok := sess.punishSet[1]; ok {
		t.Error("Expected lowest scorer spared under max-is-loser")
	}
	// The selector is still the lowest scorer.
	if !msg.contains("The lowest scorer (@1)") {
		t.Error("Expected lowest scorer as selector")
	}
}

func TestPersistentLoserGraduation(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	sess, msg, _ := newTestSession(roller)
	sess.Join(ctx, 1)
	sess.Join(ctx, 2)
	sess.persistentLosers[2] = struct{}{}
	playRound(t, ctx, sess, 1, 2)

	// Player 2 is punished via the persistent mark even though player 1 has
	// the lowest score; the mark survives because 2 did not hit the minimum.
	sess.SelectCategory(ctx, 1, "truth", false)
	if _, ok := sess.punishSet[2]; !ok {
		t.Error("Expected persistent loser in punish set")
	}
	if _, ok := sess.persistentLosers[2]; !ok {
		t.Error("Expected persistent mark retained")
	}
	sess.Accept(ctx, 1)
	sess.Accept(ctx, 2)

	// Next round player 2 rolls the minimum and graduates, but is still
	// punished this one last time.
	roller.rolls = []int{80, 20}
	playRound(t, ctx, sess, 1, 2)
	if !msg.contains("graduates from persistent punishment") {
		t.Error("Expected graduation announcement")
	}
	if _, ok := sess.persistentLosers[2]; ok {
		t.Error("Expected persistent mark cleared after graduation")
	}
	if _, ok := sess.punishSet[2]; !ok {
		t.Error("Expected graduating player punished one final time")
	}
}

func TestCarryNextRoundEffect(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60, 70, 30}}
	sess, _, repo := newTestSession(roller)
	repo.effects["defer"] = content.Effect{Name: "Defer", Kind: content.EffectCarryNextRound}
	repo.categories["fx"] = content.Category{Name: "Effects", Rules: []content.Rule{
		{Kind: content.RuleStatusEffect, Content: "defer"},
	}}

	playRound(t, ctx, sess, 1, 2)
	sess.SelectCategory(ctx, 1, "fx", false)
	if sess.Stage() != StageWaiting {
		t.Fatalf("Expected round end, got %v", sess.Stage())
	}

	// Player 1 was punished in round one; the carry punishes them again even
	// though player 2 now has the lowest score.
	playRound(t, ctx, sess, 1, 2)
	if _, ok := sess.punishSet[1]; !ok {
		t.Error("Expected carried player punished")
	}
	if _, ok := sess.punishSet[2]; ok {
		t.Error("Expected carry to override the minimum scorer")
	}
}
