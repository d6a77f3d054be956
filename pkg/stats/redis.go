// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package stats keeps a per-group leaderboard of accepted punishments in
// Redis. Session state itself stays in process memory; this is an aggregate
// side channel only.
package stats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-party-duel/pkg/dispatch"
)

const (
	// DefaultTTL is how long an idle group's leaderboard is retained.
	DefaultTTL = 30 * 24 * time.Hour
	// KeyPrefix is the prefix for all leaderboard keys.
	KeyPrefix = "party_duel:punish_count:"
)

// Store is a Redis-backed punishment leaderboard. It implements both
// game.Recorder and dispatch.Leaderboard.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Config holds store settings.
type Config struct {
	// TTL overrides the retention of idle leaderboards. Zero means 30 days.
	TTL time.Duration
}

// NewStore creates a store on top of an existing Redis client.
func NewStore(client *redis.Client, cfg Config) *Store {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

func makeKey(groupID int64) string {
	return fmt.Sprintf("%s%d", KeyPrefix, groupID)
}

// PunishmentAccepted increments the player's accepted-punishment count.
func (s *Store) PunishmentAccepted(ctx context.Context, groupID, playerID int64) error {
	key := makeKey(groupID)
	member := strconv.FormatInt(playerID, 10)

	if err := s.client.ZIncrBy(ctx, key, 1, member).Err(); err != nil {
		return fmt.Errorf("failed to increment punishment count: %w", err)
	}
	// Refresh retention on every write so active groups never expire.
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		logrus.Warnf("failed to refresh TTL on %s: %v", key, err)
	}
	logrus.Debugf("recorded punishment for player %d in group %d", playerID, groupID)
	return nil
}

// Top returns the n players with the most accepted punishments, descending.
func (s *Store) Top(ctx context.Context, groupID int64, n int) ([]dispatch.LeaderboardEntry, error) {
	key := makeKey(groupID)

	rows, err := s.client.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]dispatch.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			continue
		}
		playerID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			logrus.Warnf("skipping malformed leaderboard member %q in %s", member, key)
			continue
		}
		entries = append(entries, dispatch.LeaderboardEntry{
			PlayerID: playerID,
			Count:    int64(row.Score),
		})
	}
	return entries, nil
}
