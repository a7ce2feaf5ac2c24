/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// casRetries bounds how often a mutation is retried after losing a
// compare-and-swap race against another writer.
const casRetries = 5

// GameService drives every room mutation as a fresh read-modify-write
// cycle against the store: fetch the latest document, apply the pure
// transition, swap the whole document back. Concurrent writers that lose
// the swap re-fetch and retry, so no update is ever applied to a stale
// snapshot.
type GameService struct {
	cfg   *Config
	store RoomStore
}

func newGameService(cfg *Config, store RoomStore) *GameService {
	return &GameService{
		cfg:   cfg,
		store: store,
	}
}

// newRoomID derives a short shareable room code from a random UUID.
func newRoomID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}

func (g *GameService) mutate(ctx context.Context, roomID string, fn func(*Room) error) (*Room, error) {
	for range casRetries {
		room, err := g.store.Get(ctx, roomID)
		if err != nil {
			return nil, err
		}

		if err := fn(room); err != nil {
			return nil, err
		}

		err = g.store.Replace(ctx, room)
		if errors.Is(err, errStaleRoom) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return room, nil
	}

	return nil, errors.New("room update contention: retries exhausted")
}

func (g *GameService) requireModerator(room *Room, token string) error {
	if token == "" || token != room.ModeratorToken {
		return gameErr(KindForbidden, "moderator token required")
	}
	return nil
}

// CreateRoom allocates a fresh room and returns it together with the
// moderator token that gates all lifecycle operations on it.
func (g *GameService) CreateRoom(ctx context.Context) (*Room, error) {
	token := uuid.NewString()

	for {
		room := newRoom(newRoomID(), token, time.Now())

		err := g.store.Create(ctx, room)
		if errors.Is(err, errRoomExists) {
			continue
		}
		if err != nil {
			return nil, err
		}

		logf(g.cfg, "GAMES: Created room %s", room.RoomID)

		return room, nil
	}
}

// GetRoom returns the client-facing snapshot of a room.
func (g *GameService) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	room, err := g.store.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return room.snapshot(), nil
}

// Join seats an identity in the room. Clients without a persisted
// identity token get a freshly issued player ID; clients presenting one
// from an earlier visit reconnect to their existing seat, and kicked
// identities are rejected no matter how often they retry. Joining with
// the moderator token seats the moderator as a player and records their
// entry on the room.
func (g *GameService) Join(ctx context.Context, roomID, playerID, name, moderatorToken string) (string, *Room, error) {
	if playerID == "" {
		playerID = uuid.NewString()
	}

	room, err := g.mutate(ctx, roomID, func(r *Room) error {
		if moderatorToken != "" {
			if err := g.requireModerator(r, moderatorToken); err != nil {
				return err
			}
			if r.ModeratorPlayerID != "" && r.ModeratorPlayerID != playerID {
				return gameErr(KindValidationFailed, "moderator already seated")
			}
		}

		if _, ok := r.Players[playerID]; ok {
			// Reconnect: the seat survives reloads.
			return nil
		}

		if err := r.join(playerID, name, g.cfg.maxPlayers, time.Now()); err != nil {
			return err
		}

		if moderatorToken != "" {
			r.ModeratorPlayerID = playerID
		}

		return nil
	})
	if err != nil {
		return "", nil, err
	}

	logf(g.cfg, "GAMES: Player %q joined %s", room.Players[playerID].Name, roomID)

	return playerID, room.snapshot(), nil
}

// StartRound deals cards to every seated player and moves the room to
// playing.
func (g *GameService) StartRound(ctx context.Context, roomID, moderatorToken string, mode GameMode) (*Room, error) {
	room, err := g.mutate(ctx, roomID, func(r *Room) error {
		if err := g.requireModerator(r, moderatorToken); err != nil {
			return err
		}
		return r.startRound(mode, g.cfg.maxPlayers)
	})
	if err != nil {
		return nil, err
	}

	logf(g.cfg, "GAMES: Started %s round in %s with %d players", mode, roomID, len(room.Players))

	return room.snapshot(), nil
}

// UpdatePosition relocates one of the acting player's cards.
func (g *GameService) UpdatePosition(ctx context.Context, roomID, playerID string, cardIndex, position int, scaleLabel string) (*Room, error) {
	room, err := g.mutate(ctx, roomID, func(r *Room) error {
		return r.updatePosition(playerID, cardIndex, position, scaleLabel)
	})
	if err != nil {
		return nil, err
	}
	return room.snapshot(), nil
}

// EndRound reveals the shared ordering and records its verdict.
func (g *GameService) EndRound(ctx context.Context, roomID, moderatorToken string) (*Room, error) {
	room, err := g.mutate(ctx, roomID, func(r *Room) error {
		if err := g.requireModerator(r, moderatorToken); err != nil {
			return err
		}
		return r.endRound()
	})
	if err != nil {
		return nil, err
	}

	logf(g.cfg, "GAMES: Ended round in %s (correct: %v)", roomID, *room.IsCorrectOrder)

	return room.snapshot(), nil
}

// ResetRound clears round state so another round can start.
func (g *GameService) ResetRound(ctx context.Context, roomID, moderatorToken string) (*Room, error) {
	room, err := g.mutate(ctx, roomID, func(r *Room) error {
		if err := g.requireModerator(r, moderatorToken); err != nil {
			return err
		}
		return r.resetRound()
	})
	if err != nil {
		return nil, err
	}
	return room.snapshot(), nil
}

// Kick removes a player and permanently bans their identity.
func (g *GameService) Kick(ctx context.Context, roomID, moderatorToken, playerID string) (*Room, error) {
	room, err := g.mutate(ctx, roomID, func(r *Room) error {
		if err := g.requireModerator(r, moderatorToken); err != nil {
			return err
		}
		return r.kick(playerID)
	})
	if err != nil {
		return nil, err
	}

	logf(g.cfg, "GAMES: Kicked player %s from %s", playerID, roomID)

	return room.snapshot(), nil
}

// CloseRoom marks the room closed; all later mutations fail.
func (g *GameService) CloseRoom(ctx context.Context, roomID, moderatorToken string) (*Room, error) {
	room, err := g.mutate(ctx, roomID, func(r *Room) error {
		if err := g.requireModerator(r, moderatorToken); err != nil {
			return err
		}
		return r.close(time.Now())
	})
	if err != nil {
		return nil, err
	}

	logf(g.cfg, "GAMES: Closed room %s", roomID)

	return room.snapshot(), nil
}

// DeleteRoom physically removes the room document.
func (g *GameService) DeleteRoom(ctx context.Context, roomID, moderatorToken string) error {
	room, err := g.store.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if err := g.requireModerator(room, moderatorToken); err != nil {
		return err
	}

	if err := g.store.Delete(ctx, roomID); err != nil {
		return err
	}

	logf(g.cfg, "GAMES: Deleted room %s", roomID)

	return nil
}

// reapLoop periodically purges rooms that have been closed longer than
// the configured room timeout.
func (g *GameService) reapLoop(ctx context.Context) {
	ticker := time.NewTicker(g.cfg.roomTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-g.cfg.roomTimeout)

			reaped, err := g.store.Reap(ctx, cutoff)
			if err != nil {
				logf(g.cfg, "GAMES: Reap failed: %v", err)
				continue
			}
			if reaped > 0 {
				logf(g.cfg, "GAMES: Reaped %d closed rooms", reaped)
			}
		}
	}
}
