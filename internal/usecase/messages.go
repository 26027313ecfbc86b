package usecase

import (
	"encoding/json"

	"github.com/thedivtagguy/rhymer/internal/entity"
)

const (
	msgTypeSync          = "sync"
	msgTypeRoomFull      = "room_full"
	msgTypePlayedWord    = "played_word"
	msgTypeProgress      = "progress"
	msgTypeRevealGuesses = "reveal_guesses"
	msgTypeGameFinished  = "game_finished"
	msgTypePlayerLeft    = "player_left"

	inboundTypeRhyme = "rhyme"
)

// inboundMessage is the only message shape the session processes.
// Anything else is dropped without a reply.
type inboundMessage struct {
	Type  string        `json:"type"`
	Room  string        `json:"room"`
	Rhyme *rhymePayload `json:"rhyme"`
}

type rhymePayload struct {
	Word string `json:"word"`
}

func parseInbound(raw []byte) (*inboundMessage, bool) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, false
	}

	return &msg, true
}

// Outbound payloads, all broadcast as JSON text frames.

type SyncMessage struct {
	Type            string            `json:"type"`
	GameState       *entity.GameState `json:"gameState"`
	CurrentPlayerID string            `json:"currentPlayerId"`
	NextPlayerID    string            `json:"nextPlayerId"`
}

type RoomFullMessage struct {
	Type         string `json:"type"`
	RoomFull     bool   `json:"room_full"`
	ConnectionID string `json:"connection_id"`
}

type PlayedWordMessage struct {
	Type string `json:"type"`
	Word string `json:"word"`
	User string `json:"user"`
}

type ProgressMessage struct {
	Type     string         `json:"type"`
	MaxMoves int            `json:"maxMoves"`
	Progress map[string]int `json:"progress"`
}

type RevealGuessesMessage struct {
	Type string `json:"type"`
}

type GameFinishedMessage struct {
	Type     string                `json:"type"`
	Rankings []entity.RankingEntry `json:"rankings"`
}

type PlayerLeftMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}
