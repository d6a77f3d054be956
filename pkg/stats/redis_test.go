// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package stats

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client, Config{}), mr
}

func TestPunishmentAcceptedIncrements(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	for i := 0; i < 3; i++ {
		if err := store.PunishmentAccepted(ctx, 100, 1); err != nil {
			t.Fatalf("PunishmentAccepted() error = %v", err)
		}
	}
	if err := store.PunishmentAccepted(ctx, 100, 2); err != nil {
		t.Fatalf("PunishmentAccepted() error = %v", err)
	}

	entries, err := store.Top(ctx, 100, 10)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].PlayerID != 1 || entries[0].Count != 3 {
		t.Errorf("Expected player 1 with count 3 first, got %+v", entries[0])
	}
	if entries[1].PlayerID != 2 || entries[1].Count != 1 {
		t.Errorf("Expected player 2 with count 1 second, got %+v", entries[1])
	}
}

func TestLeaderboardsAreGroupScoped(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	if err := store.PunishmentAccepted(ctx, 100, 1); err != nil {
		t.Fatalf("PunishmentAccepted() error = %v", err)
	}

	entries, err := store.Top(ctx, 200, 10)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty leaderboard for other group, got %d entries", len(entries))
	}
}

func TestTopLimitsEntries(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	for p := int64(1); p <= 5; p++ {
		for i := int64(0); i < p; i++ {
			if err := store.PunishmentAccepted(ctx, 100, p); err != nil {
				t.Fatalf("PunishmentAccepted() error = %v", err)
			}
		}
	}

	entries, err := store.Top(ctx, 100, 3)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].PlayerID != 5 {
		t.Errorf("Expected player 5 on top, got %d", entries[0].PlayerID)
	}
}

func TestWriteRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)

	if err := store.PunishmentAccepted(ctx, 100, 1); err != nil {
		t.Fatalf("PunishmentAccepted() error = %v", err)
	}

	ttl := mr.TTL(makeKey(100))
	if ttl <= 0 || ttl > 30*24*time.Hour {
		t.Errorf("Expected retention TTL set, got %v", ttl)
	}
}

func TestTopSkipsMalformedMembers(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)

	if err := store.PunishmentAccepted(ctx, 100, 1); err != nil {
		t.Fatalf("PunishmentAccepted() error = %v", err)
	}
	mr.ZAdd(makeKey(100), 9, "not-a-player")

	entries, err := store.Top(ctx, 100, 10)
	if err != nil {
		t.Fatalf("Top() error = %v", err)
	}
	if len(entries) != 1 || entries[0].PlayerID != 1 {
		t.Errorf("Expected only the valid member, got %+v", entries)
	}
}
