// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import (
	"context"
	"strings"
	"testing"
)

type fakeRecorder struct {
	accepted []int64
	err      error
}

func (r *fakeRecorder) PunishmentAccepted(ctx context.Context, groupID, playerID int64) error {
	r.accepted = append(r.accepted, playerID)
	return r.err
}

func TestListItems(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newTestSession(&fakeRoller{})
	sess.Join(ctx, 1)
	sess.inventory[1] = []string{"transfer", "gone"}

	out := sess.ListItems(ctx, 1)
	if !strings.Contains(out, "Scapegoat (transfer)") {
		t.Errorf("Expected named item in listing, got %q", out)
	}
	// Items removed by a content reload fall back to the raw ID.
	if !strings.Contains(out, "gone (gone)") {
		t.Errorf("Expected raw ID fallback for unknown item, got %q", out)
	}
}

func TestUseItemGuards(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	sess, msg, _ := newTestSession(roller)

	sess.Join(ctx, 1)
	sess.Join(ctx, 2)
	sess.UseItem(ctx, 1, "transfer", 2)
	if !msg.contains("not the punishment stage") {
		t.Error("Expected stage rejection")
	}

	playRound(t, ctx, sess, 1, 2)
	sess.SelectCategory(ctx, 1, "truth", false)

	sess.UseItem(ctx, 1, "transfer", 2)
	if !msg.contains("you do not have that item") {
		t.Error("Expected missing-item rejection")
	}

	sess.inventory[1] = []string{"ghost"}
	sess.UseItem(ctx, 1, "ghost", 2)
	if !msg.contains("that item no longer exists") {
		t.Error("Expected rejection for item removed from content")
	}

	sess.inventory[1] = append(sess.inventory[1], "transfer")
	sess.UseItem(ctx, 1, "transfer", 99)
	if !msg.contains("that player is not in the game") {
		t.Error("Expected unknown-target rejection")
	}

	sess.inventory[2] = []string{"transfer"}
	sess.UseItem(ctx, 2, "transfer", 1)
	if !msg.contains("you are not being punished") {
		t.Error("Expected non-punished rejection")
	}
}

func TestTransferPunishment(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	sess, msg, _ := newTestSession(roller)
	playRound(t, ctx, sess, 1, 2)
	sess.SelectCategory(ctx, 1, "truth", false)
	sess.inventory[1] = []string{"transfer"}

	sess.UseItem(ctx, 1, "transfer", 2)
	if _, ok := sess.punishSet[1]; ok {
		t.Error("Expected user removed from punish set")
	}
	if _, ok := sess.punishSet[2]; !ok {
		t.Error("Expected target added to punish set")
	}
	if containsString(sess.inventory[1], "transfer") {
		t.Error("Expected item consumed")
	}
	if !msg.contains("@1 transferred their punishment to @2") {
		t.Error("Expected transfer announcement")
	}

	sess.Accept(ctx, 1)
	if !msg.contains("not on the punish list") {
		t.Error("Expected accept rejection after transferring away")
	}
	sess.Accept(ctx, 2)
	if sess.Stage() != StageWaiting {
		t.Errorf("Expected round end after target accepted, got %v", sess.Stage())
	}
}

func TestSharePunishment(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	sess, msg, _ := newTestSession(roller)
	playRound(t, ctx, sess, 1, 2)
	sess.SelectCategory(ctx, 1, "truth", false)
	sess.inventory[1] = []string{"share"}

	sess.UseItem(ctx, 1, "share", 1)
	if !msg.contains("@1 ???") {
		t.Error("Expected self-target rebuff")
	}
	if !containsString(sess.inventory[1], "share") {
		t.Error("Expected item kept on self-target")
	}

	sess.UseItem(ctx, 1, "share", 2)
	if _, ok := sess.punishSet[1]; !ok {
		t.Error("Expected user still punished")
	}
	if _, ok := sess.punishSet[2]; !ok {
		t.Error("Expected target added to punish set")
	}
	if containsString(sess.inventory[1], "share") {
		t.Error("Expected item consumed")
	}

	sess.Accept(ctx, 1)
	if sess.Stage() != StagePunishing {
		t.Error("Expected round to continue while target pending")
	}
	sess.Accept(ctx, 2)
	if sess.Stage() != StageWaiting {
		t.Errorf("Expected round end after both accepted, got %v", sess.Stage())
	}
}

func TestConsumeItemRemovesOneUnit(t *testing.T) {
	sess, _, _ := newTestSession(&fakeRoller{})
	sess.inventory[1] = []string{"share", "transfer", "share"}

	sess.consumeItem(1, "share")
	if got := len(sess.inventory[1]); got != 2 {
		t.Fatalf("Expected 2 items left, got %d", got)
	}
	if !containsString(sess.inventory[1], "share") {
		t.Error("Expected second unit retained")
	}
}

func TestAcceptNotifiesRecorder(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	msg := &fakeMessenger{}
	repo := testRepo()
	rec := &fakeRecorder{}
	sess := NewSession(42, msg, repo, Config{MinPlayers: 2, Roller: roller, Recorder: rec})

	playRound(t, ctx, sess, 1, 2)
	sess.SelectCategory(ctx, 1, "truth", false)
	sess.Accept(ctx, 1)

	if len(rec.accepted) != 1 || rec.accepted[0] != 1 {
		t.Errorf("Expected recorder notified for player 1, got %v", rec.accepted)
	}
	if sess.Stage() != StageWaiting {
		t.Errorf("Expected round end, got %v", sess.Stage())
	}
}

func TestAcceptGuards(t *testing.T) {
	ctx := context.Background()
	roller := &fakeRoller{rolls: []int{40, 60}}
	sess, msg, _ := newTestSession(roller)

	sess.Join(ctx, 1)
	sess.Join(ctx, 2)
	sess.Accept(ctx, 1)
	if !msg.contains("not the punishment stage") {
		t.Error("Expected stage rejection")
	}

	playRound(t, ctx, sess, 1, 2)
	sess.SelectCategory(ctx, 1, "truth", false)
	sess.Accept(ctx, 2)
	if !msg.contains("not on the punish list") {
		t.Error("Expected non-punished rejection")
	}
}
