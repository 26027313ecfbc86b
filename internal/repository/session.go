package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/thedivtagguy/rhymer/internal/apperror"
	"github.com/thedivtagguy/rhymer/internal/entity"
)

// SessionRepository persists the live state of a room under two keys,
// players and gameState. The two are always written together so a
// reader never observes one updated without the other.
type SessionRepository interface {
	Load(ctx context.Context, roomID string) (entity.Roster, *entity.GameState, error)
	Save(ctx context.Context, roomID string, roster entity.Roster, state *entity.GameState) error
	Delete(ctx context.Context, roomID string) error
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

// Load reads both keys of a room. A missing gameState key means no
// start event has completed for the room yet, which is an ordering
// error on the caller's side.
func (that *dbSession) Load(ctx context.Context, roomID string) (entity.Roster, *entity.GameState, error) {
	stateJSON, err := that.client.Get(ctx, gameStateKey(roomID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil, apperror.ErrSessionNotStarted
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game state: %w", err)
	}

	var state entity.GameState
	if err = json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	roster := entity.Roster{}

	playersJSON, err := that.client.Get(ctx, playersKey(roomID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, nil, fmt.Errorf("failed to get players: %w", err)
	}

	if err == nil {
		if err = json.Unmarshal([]byte(playersJSON), &roster); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal players: %w", err)
		}
	}

	return roster, &state, nil
}

// Save writes both keys before returning, players first.
func (that *dbSession) Save(ctx context.Context, roomID string, roster entity.Roster, state *entity.GameState) error {
	playersJSON, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("could not marshal players: %w", err)
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal game state: %w", err)
	}

	if err = that.client.Set(ctx, playersKey(roomID), playersJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set players: %w", err)
	}

	if err = that.client.Set(ctx, gameStateKey(roomID), stateJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game state: %w", err)
	}

	return nil
}

func (that *dbSession) Delete(ctx context.Context, roomID string) error {
	if err := that.client.Del(ctx, playersKey(roomID), gameStateKey(roomID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session keys: %w", err)
	}

	return nil
}

func playersKey(roomID string) string {
	return "room:" + roomID + ":players"
}

func gameStateKey(roomID string) string {
	return "room:" + roomID + ":gameState"
}
