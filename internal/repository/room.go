package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/thedivtagguy/rhymer/internal/apperror"
	"github.com/thedivtagguy/rhymer/internal/entity"
)

// RoomRepository is the room directory: registered room records with
// their player capacity. Records are created through the REST API.
type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	GetMaxPlayers(ctx context.Context, roomID string) (int, error)
}

type dbRoom struct {
	conn *sql.DB
}

func NewRoomRepository(conn *sql.DB) (RoomRepository, error) {
	query := `CREATE TABLE IF NOT EXISTS rooms (
		room_id TEXT PRIMARY KEY,
		max_players INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := conn.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create rooms table: %w", err)
	}

	return &dbRoom{conn: conn}, nil
}

func (that *dbRoom) Create(ctx context.Context, room *entity.Room) error {
	query := "INSERT INTO rooms (room_id, max_players) VALUES (?, ?)"

	if _, err := that.conn.ExecContext(ctx, query, room.ID, room.MaxPlayers); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", apperror.ErrRoomAlreadyExists, room.ID)
		}

		return fmt.Errorf("failed to insert room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetMaxPlayers(ctx context.Context, roomID string) (int, error) {
	query := "SELECT max_players FROM rooms WHERE room_id = ?"

	var maxPlayers int

	err := that.conn.QueryRowContext(ctx, query, roomID).Scan(&maxPlayers)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to query room: %w", err)
	}

	return maxPlayers, nil
}
