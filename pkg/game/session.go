// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package game implements the per-group point-duel session: a finite-state
// round lifecycle with randomized scoring, punishment selection, deferred
// status effects and an item economy.
//
// A Session performs no locking of its own. The dispatcher owns the
// serialization contract: at most one command is applied to a session at a
// time (one mutex per group). Every operation completes synchronously before
// the triggering command returns.
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-party-duel/pkg/content"
	"github.com/AccelByte/extend-party-duel/pkg/metrics"
)

// NoPlayer is the selector value outside the select/punish stages.
const NoPlayer int64 = -1

// MessageRef is an opaque handle to a sent group message, used for
// best-effort retraction. The zero value means "no message".
type MessageRef int64

// Messenger is the outbound messaging collaborator. Sends and deletes are
// best-effort: the engine never retries and a delete failure is swallowed.
type Messenger interface {
	// SendGroupMessage delivers text to the group and returns a handle for
	// later retraction.
	SendGroupMessage(ctx context.Context, groupID int64, text string) (MessageRef, error)

	// DeleteMessage retracts a previously sent message.
	DeleteMessage(ctx context.Context, ref MessageRef) error

	// MemberDisplayName resolves a player's display name within the group.
	MemberDisplayName(ctx context.Context, groupID, playerID int64) string

	// Mention renders an at-reference for a player.
	Mention(playerID int64) string
}

// Roller supplies the engine's randomness. The default implementation draws
// from the process-wide math/rand source.
type Roller interface {
	// Roll returns a uniform score in [1,100].
	Roll() int

	// Pick returns a uniform index in [0,n).
	Pick(n int) int
}

type defaultRoller struct{}

func (defaultRoller) Roll() int      { return rand.Intn(100) + 1 }
func (defaultRoller) Pick(n int) int { return rand.Intn(n) }

// Recorder receives punishment-completion events, e.g. for a leaderboard.
// Failures are logged and never affect the round.
type Recorder interface {
	PunishmentAccepted(ctx context.Context, groupID, playerID int64) error
}

// Config holds per-session tunables.
type Config struct {
	// MinPlayers is the minimum enrollment required to start a round.
	MinPlayers int

	// Roller overrides the randomness source. Nil means the shared
	// math/rand source.
	Roller Roller

	// Recorder, if set, is notified when a player accepts a punishment.
	Recorder Recorder
}

// Session is one group's game instance. It owns all round and persistent
// state for that group and lives for the process lifetime.
type Session struct {
	group int64
	msg   Messenger
	repo  content.Repository
	cfg   Config

	stage         Stage
	players       map[int64]struct{}
	pendingJoins  []int64
	pendingLeaves []int64

	// Round state, reset by endRound.
	unscored    map[int64]struct{}
	scores      map[int64]int
	selector    int64
	punishSet   map[int64]struct{}
	lastRollRef MessageRef

	// Cross-round state.
	carryPunish      map[int64]struct{}
	persistentLosers map[int64]struct{}
	categoryLimits   map[int64][]string
	scoreBonus       map[int64]int
	maxIsLoser       bool
	inventory        map[int64][]string
	countdowns       []countdown
}

// NewSession creates a session for a group in the waiting stage.
func NewSession(groupID int64, msg Messenger, repo content.Repository, cfg Config) *Session {
	if cfg.Roller == nil {
		cfg.Roller = defaultRoller{}
	}
	if cfg.MinPlayers < 1 {
		cfg.MinPlayers = 1
	}
	return &Session{
		group:            groupID,
		msg:              msg,
		repo:             repo,
		cfg:              cfg,
		stage:            StageWaiting,
		players:          make(map[int64]struct{}),
		unscored:         make(map[int64]struct{}),
		scores:           make(map[int64]int),
		selector:         NoPlayer,
		punishSet:        make(map[int64]struct{}),
		carryPunish:      make(map[int64]struct{}),
		persistentLosers: make(map[int64]struct{}),
		categoryLimits:   make(map[int64][]string),
		scoreBonus:       make(map[int64]int),
		inventory:        make(map[int64][]string),
	}
}

// Group returns the group this session belongs to.
func (s *Session) Group() int64 { return s.group }

// Stage returns the current lifecycle stage.
func (s *Session) Stage() Stage { return s.stage }

// HasPlayer reports whether the player is currently enrolled.
func (s *Session) HasPlayer(playerID int64) bool {
	_, ok := s.players[playerID]
	return ok
}

// Join enrolls a player. Outside the waiting stage the join is queued and
// applied when the session returns to waiting. Joining twice is a no-op with
// a notice.
func (s *Session) Join(ctx context.Context, playerID int64) {
	if s.HasPlayer(playerID) {
		s.send(ctx, s.msg.Mention(playerID)+" you are already in the game.")
		return
	}
	if s.stage == StageWaiting {
		s.players[playerID] = struct{}{}
		logrus.Infof("group %d: player %d joined (%d enrolled)", s.group, playerID, len(s.players))
		s.send(ctx, s.msg.Mention(playerID)+" joined the game. Send \"help\" for the command list.\nCurrent status:\n"+s.StatusSummary(ctx))
		return
	}
	s.pendingJoins = append(s.pendingJoins, playerID)
	logrus.Infof("group %d: player %d queued to join next round", s.group, playerID)
	s.send(ctx, s.msg.Mention(playerID)+" you will join automatically when the next round starts.")
}

// Leave unenrolls a player. Outside the waiting stage the leave is queued.
// Leaving purges every per-player mapping so no dangling obligations remain.
func (s *Session) Leave(ctx context.Context, playerID int64) {
	if !s.HasPlayer(playerID) {
		s.send(ctx, s.msg.Mention(playerID)+" you are not in the current game.")
		return
	}
	if s.stage == StageWaiting {
		delete(s.players, playerID)
		delete(s.inventory, playerID)
		delete(s.categoryLimits, playerID)
		delete(s.persistentLosers, playerID)
		delete(s.scoreBonus, playerID)
		delete(s.carryPunish, playerID)
		logrus.Infof("group %d: player %d left (%d enrolled)", s.group, playerID, len(s.players))
		s.send(ctx, s.msg.Mention(playerID)+" left the game. Current status:\n"+s.StatusSummary(ctx))
		return
	}
	s.pendingLeaves = append(s.pendingLeaves, playerID)
	logrus.Infof("group %d: player %d queued to leave after this round", s.group, playerID)
	s.send(ctx, s.msg.Mention(playerID)+" you will leave automatically when this round ends.")
}

// Start moves the session from waiting to scoring. Every enrolled player
// becomes unscored.
func (s *Session) Start(ctx context.Context) {
	if s.stage != StageWaiting {
		s.send(ctx, "The game has already started!")
		return
	}
	if len(s.players) < s.cfg.MinPlayers {
		s.send(ctx, fmt.Sprintf("At least %d players are needed to start!", s.cfg.MinPlayers))
		return
	}
	for p := range s.players {
		s.unscored[p] = struct{}{}
	}
	s.stage = StageDistributing
	logrus.Infof("group %d: round started with %d players", s.group, len(s.players))
	s.send(ctx, "Scoring has started!\nSend \"roll\" to draw your score.")
}

// ForceStop unconditionally runs the round-end transition from any stage.
func (s *Session) ForceStop(ctx context.Context) {
	logrus.Infof("group %d: force stop from stage %q", s.group, s.stage)
	s.endRound(ctx)
}

// endRound is the round-end transition: clears round state, runs the
// countdown scheduler, returns to waiting and applies queued joins/leaves in
// FIFO order.
func (s *Session) endRound(ctx context.Context) {
	s.send(ctx, "This round is over.")

	s.scores = make(map[int64]int)
	s.unscored = make(map[int64]struct{})
	s.punishSet = make(map[int64]struct{})
	s.selector = NoPlayer
	s.lastRollRef = 0

	s.runCountdowns(ctx)

	s.stage = StageWaiting
	metrics.RoundsTotal.Inc()

	joins := s.pendingJoins
	leaves := s.pendingLeaves
	s.pendingJoins = nil
	s.pendingLeaves = nil
	for _, p := range joins {
		s.Join(ctx, p)
	}
	for _, p := range leaves {
		s.Leave(ctx, p)
	}
}

// send delivers a group message, logging and swallowing send failures.
func (s *Session) send(ctx context.Context, text string) MessageRef {
	ref, err := s.msg.SendGroupMessage(ctx, s.group, text)
	if err != nil {
		logrus.Errorf("group %d: failed to send message: %v", s.group, err)
		return 0
	}
	return ref
}

// profile resolves a player's display name.
func (s *Session) profile(ctx context.Context, playerID int64) string {
	return s.msg.MemberDisplayName(ctx, s.group, playerID)
}

// sortedPlayers returns the keys of a player set in ascending order, for
// deterministic iteration.
func sortedPlayers(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
