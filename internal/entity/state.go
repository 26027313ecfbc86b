package entity

import (
	"sort"
	"time"
)

const (
	DefaultMaxRounds         = 5
	DefaultMaxMovesPerPlayer = 5
)

// Category point values used for final rankings.
const (
	pointsOkay  = 1
	pointsGood  = 2
	pointsGreat = 3
)

// Session carries the per-room bookkeeping that travels alongside the
// round history. RoundsPlayed counts completed rounds, not started
// ones: it stays 0 for the whole first round and trails len(Rounds)
// by one while a round is active.
type Session struct {
	PlayerCount      int    `json:"playerCount"`
	RoomID           string `json:"roomId"`
	StartedAt        int64  `json:"startedAt"`
	CurrentPlayerID  string `json:"currentPlayerId"`
	RoundsPlayed     int    `json:"roundsPlayed"`
	RevealInProgress bool   `json:"revealInProgress"`
}

// GameState is the authoritative state of one room: the full round
// sequence plus session metadata. Rounds is non-empty after session
// start and its last element is always the active round.
type GameState struct {
	Rounds  []*WordRound `json:"rounds"`
	Session Session      `json:"session"`
}

type RankingEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

func NewGameState(roomID string, firstRound *WordRound, startedAt time.Time) *GameState {
	return &GameState{
		Rounds: []*WordRound{firstRound},
		Session: Session{
			RoomID:    roomID,
			StartedAt: startedAt.UnixMilli(),
		},
	}
}

// CurrentRound returns the active round, the last one appended.
func (that *GameState) CurrentRound() *WordRound {
	if len(that.Rounds) == 0 {
		return nil
	}

	return that.Rounds[len(that.Rounds)-1]
}

// AppendRound promotes round to the active one once its predecessor
// completed, counting the predecessor as played.
func (that *GameState) AppendRound(round *WordRound) {
	that.Rounds = append(that.Rounds, round)
	that.Session.RoundsPlayed++
}

func (that *GameState) IsGameFinished(maxRounds int) bool {
	return len(that.Rounds) >= maxRounds
}

// StripValidRhymes removes the heavy rhyme sets from every round before
// the final persist.
func (that *GameState) StripValidRhymes() {
	for _, round := range that.Rounds {
		round.StripValidRhymes()
	}
}

// CalculateRankings sums points over the valid guesses of all rounds
// and orders players by score, descending. Ties keep first-appearance
// order and every position gets its own rank, starting at 1.
func (that *GameState) CalculateRankings() []RankingEntry {
	scores := make(map[string]int)

	var order []string

	for _, round := range that.Rounds {
		for _, guess := range round.Guesses {
			if !guess.IsValid {
				continue
			}

			if _, ok := scores[guess.PlayerID]; !ok {
				order = append(order, guess.PlayerID)
			}

			scores[guess.PlayerID] += pointsFor(guess.Category)
		}
	}

	rankings := make([]RankingEntry, 0, len(order))
	for _, playerID := range order {
		rankings = append(rankings, RankingEntry{PlayerID: playerID, Score: scores[playerID]})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})

	for i := range rankings {
		rankings[i].Rank = i + 1
	}

	return rankings
}

func pointsFor(category string) int {
	switch category {
	case CategoryOkay:
		return pointsOkay
	case CategoryGood:
		return pointsGood
	case CategoryGreat:
		return pointsGreat
	default:
		return 0
	}
}
