// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package dispatch routes inbound group messages to per-group game sessions.
//
// The dispatcher owns the registry of live sessions and the serialization
// contract the engine relies on: one mutex per group, held for the full
// duration of each command. The engine itself is lock-free.
package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-party-duel/pkg/chat"
	"github.com/AccelByte/extend-party-duel/pkg/common"
	"github.com/AccelByte/extend-party-duel/pkg/content"
	"github.com/AccelByte/extend-party-duel/pkg/game"
	"github.com/AccelByte/extend-party-duel/pkg/metrics"
)

// EnterCommand creates a session in an enabled group, enrolling the sender
// (or unenrolling them when already enrolled).
const EnterCommand = "partyduel"

// Leaderboard serves the stats command.
type Leaderboard interface {
	Top(ctx context.Context, groupID int64, n int) ([]LeaderboardEntry, error)
}

// LeaderboardEntry is one row of the punishment leaderboard.
type LeaderboardEntry struct {
	PlayerID int64
	Count    int64
}

// Config holds dispatcher settings.
type Config struct {
	// EnabledGroups is the allowlist of groups the enter command works in.
	EnabledGroups []int64
	// Session is the per-session configuration passed to new sessions.
	Session game.Config
}

// Dispatcher implements chat.EventHandler over a registry of group sessions.
type Dispatcher struct {
	messenger game.Messenger
	repo      content.Repository
	board     Leaderboard // optional
	cfg       Config
	enabled   map[int64]struct{}

	mu       sync.Mutex
	sessions map[int64]*groupSession
}

// groupSession pairs a session with the mutex that serializes its commands.
type groupSession struct {
	mu   sync.Mutex
	sess *game.Session
}

// New creates a dispatcher. board may be nil to disable the stats command.
func New(messenger game.Messenger, repo content.Repository, board Leaderboard, cfg Config) *Dispatcher {
	enabled := make(map[int64]struct{}, len(cfg.EnabledGroups))
	for _, g := range cfg.EnabledGroups {
		enabled[g] = struct{}{}
	}
	return &Dispatcher{
		messenger: messenger,
		repo:      repo,
		board:     board,
		cfg:       cfg,
		enabled:   enabled,
		sessions:  make(map[int64]*groupSession),
	}
}

// SetMessenger installs the messenger after construction. The dispatcher and
// the chat client reference each other, so one side has to be wired late;
// this must happen before any message is handled.
func (d *Dispatcher) SetMessenger(m game.Messenger) {
	d.messenger = m
}

// Session returns the live session for a group, if any. Intended for status
// inspection; mutation must go through HandleGroupMessage.
func (d *Dispatcher) Session(groupID int64) (*game.Session, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	gs, ok := d.sessions[groupID]
	if !ok {
		return nil, false
	}
	return gs.sess, true
}

// HandleGroupMessage parses one inbound message and applies at most one
// command to the group's session.
func (d *Dispatcher) HandleGroupMessage(ctx context.Context, evt chat.GroupMessageEvent) {
	fields := strings.Fields(evt.Text)
	if len(fields) == 0 {
		return
	}
	cmd := strings.ToLower(fields[0])

	if cmd == EnterCommand {
		d.handleEnter(ctx, evt)
		return
	}

	gs := d.lookup(evt.GroupID)
	if gs == nil {
		return
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()
	d.dispatch(ctx, gs.sess, cmd, fields[1:], evt.UserID)
}

// handleEnter creates the group's session on first use and toggles the
// sender's enrollment.
func (d *Dispatcher) handleEnter(ctx context.Context, evt chat.GroupMessageEvent) {
	if _, ok := d.enabled[evt.GroupID]; !ok {
		logrus.Debugf("group %d: enter command ignored, group not enabled", evt.GroupID)
		return
	}

	d.mu.Lock()
	gs, ok := d.sessions[evt.GroupID]
	if !ok {
		gs = &groupSession{sess: game.NewSession(evt.GroupID, d.messenger, d.repo, d.cfg.Session)}
		d.sessions[evt.GroupID] = gs
		metrics.ActiveSessions.Inc()
		logrus.Infof("group %d: session created", evt.GroupID)
	}
	d.mu.Unlock()

	gs.mu.Lock()
	defer gs.mu.Unlock()
	metrics.CommandsTotal.WithLabelValues(EnterCommand).Inc()
	if gs.sess.HasPlayer(evt.UserID) {
		gs.sess.Leave(ctx, evt.UserID)
	} else {
		gs.sess.Join(ctx, evt.UserID)
	}
}

func (d *Dispatcher) lookup(groupID int64) *groupSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessions[groupID]
}

// dispatch applies one parsed command. Unknown commands are ignored so the
// bot stays silent in ordinary conversation. Messages from non-players are
// ignored except for join.
func (d *Dispatcher) dispatch(ctx context.Context, sess *game.Session, cmd string, args []string, userID int64) {
	if !sess.HasPlayer(userID) && cmd != "join" {
		return
	}

	scope := common.GetScopeFromContext(ctx, "command."+cmd)
	defer scope.Finish()
	scope.SetAttributes("group_id", sess.Group())
	scope.SetAttributes("user_id", userID)
	ctx = scope.Ctx

	metrics.CommandsTotal.WithLabelValues(cmd).Inc()

	switch cmd {
	case "help":
		d.send(ctx, sess.Group(), helpText)
	case "status":
		d.send(ctx, sess.Group(), sess.StatusSummary(ctx))
	case "join":
		sess.Join(ctx, userID)
	case "leave":
		sess.Leave(ctx, userID)
	case "start":
		sess.Start(ctx)
	case "roll":
		sess.RecordScore(ctx, userID)
	case "pick", "repick":
		if len(args) < 1 {
			d.send(ctx, sess.Group(), "Please provide the category ID to pick!")
			return
		}
		sess.SelectCategory(ctx, userID, args[0], cmd == "repick")
	case "items":
		d.send(ctx, sess.Group(), sess.ListItems(ctx, userID))
	case "use":
		if len(args) < 2 {
			d.send(ctx, sess.Group(), "Usage: use <item> <target>")
			return
		}
		target, err := parsePlayerRef(args[1])
		if err != nil {
			d.send(ctx, sess.Group(), "Please provide a valid target player!")
			return
		}
		sess.UseItem(ctx, userID, args[0], target)
	case "accept":
		sess.Accept(ctx, userID)
	case "remind":
		sess.NotifyUnscored(ctx)
	case "skip":
		sess.SkipRemaining(ctx)
	case "stop":
		sess.ForceStop(ctx)
	case "stats":
		d.handleStats(ctx, sess.Group())
	}
}

func (d *Dispatcher) handleStats(ctx context.Context, groupID int64) {
	if d.board == nil {
		return
	}
	entries, err := d.board.Top(ctx, groupID, 10)
	if err != nil {
		logrus.Errorf("group %d: failed to load leaderboard: %v", groupID, err)
		d.send(ctx, groupID, "The leaderboard is unavailable right now.")
		return
	}
	if len(entries) == 0 {
		d.send(ctx, groupID, "Nobody has taken a punishment yet.")
		return
	}
	msg := "Punishments taken:\n"
	for i, e := range entries {
		name := d.messenger.MemberDisplayName(ctx, groupID, e.PlayerID)
		msg += fmt.Sprintf("%d. %s: %d\n", i+1, name, e.Count)
	}
	d.send(ctx, groupID, msg)
}

// send delivers a message, logging send failures.
func (d *Dispatcher) send(ctx context.Context, groupID int64, text string) {
	if _, err := d.messenger.SendGroupMessage(ctx, groupID, text); err != nil {
		logrus.Errorf("group %d: failed to send message: %v", groupID, err)
	}
}

// parsePlayerRef accepts a numeric player ID or an at-reference in CQ
// syntax.
func parsePlayerRef(s string) (int64, error) {
	if strings.HasPrefix(s, "[CQ:at,qq=") && strings.HasSuffix(s, "]") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "[CQ:at,qq="), "]")
	}
	return strconv.ParseInt(s, 10, 64)
}
