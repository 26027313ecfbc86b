package entity

import "time"

// Room is a registered room record. Records are created out-of-band
// through the REST API; MaxPlayers caps the live roster.
type Room struct {
	ID         string    `json:"roomId"`
	MaxPlayers int       `json:"maxPlayers"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}
