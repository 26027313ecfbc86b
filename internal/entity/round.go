package entity

import (
	"strings"
	"time"

	"github.com/thedivtagguy/rhymer/internal/apperror"
)

const (
	CategoryGreat = "great"
	CategoryGood  = "good"
	CategoryOkay  = "okay"
	CategoryNope  = "nope"
)

// Stats summarizes the score distribution of a word's rhyme set, as
// reported by the rhyme provider.
type Stats struct {
	Mean  float64 `json:"mean"`
	Cuts  Cuts    `json:"cuts"`
	Total int     `json:"total"`
}

type Cuts struct {
	P50 float64 `json:"50th"`
	P75 float64 `json:"75th"`
}

// Rhyme is one valid rhyme for a target word, annotated with the
// category derived from the round's score distribution.
type Rhyme struct {
	Word     string  `json:"word"`
	Score    float64 `json:"score"`
	Category string  `json:"category,omitempty"`
}

// Guess records one submitted word. It is created once per accepted
// submission and never rewritten.
type Guess struct {
	Word        string    `json:"word"`
	PlayerID    string    `json:"playerId"`
	IsValid     bool      `json:"isValid"`
	Category    string    `json:"category"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// WordRound owns one target word, its valid-rhyme set and the guesses
// made against it. Guesses only grow within a round.
type WordRound struct {
	TargetWord  string  `json:"targetWord"`
	ValidRhymes []Rhyme `json:"validRhymes,omitempty"`
	Guesses     []Guess `json:"guesses"`
	Stats       Stats   `json:"stats"`
}

// CategorizeScore maps a rhyme score onto a category using the round's
// score distribution. The same function scores the valid-rhyme set at
// round creation and every live guess, so the two can never disagree.
func CategorizeScore(score float64, stats Stats) string {
	switch {
	case score > stats.Cuts.P75:
		return CategoryGreat
	case score > stats.Cuts.P50:
		return CategoryGood
	case score < stats.Mean:
		return CategoryOkay
	default:
		return CategoryNope
	}
}

// NewRound builds a round for word, annotating every candidate with its
// category. An empty candidate list is valid: the round simply marks
// every guess invalid.
func NewRound(word string, candidates []Rhyme, stats Stats) *WordRound {
	rhymes := make([]Rhyme, 0, len(candidates))
	for _, candidate := range candidates {
		candidate.Category = CategorizeScore(candidate.Score, stats)
		rhymes = append(rhymes, candidate)
	}

	return &WordRound{
		TargetWord:  word,
		ValidRhymes: rhymes,
		Guesses:     []Guess{},
		Stats:       stats,
	}
}

// HasBeenPlayed reports whether word was already guessed this round.
// The comparison is case- and whitespace-insensitive.
func (that *WordRound) HasBeenPlayed(word string) bool {
	normalized := normalizeWord(word)
	for _, guess := range that.Guesses {
		if normalizeWord(guess.Word) == normalized {
			return true
		}
	}

	return false
}

// SubmitGuess validates rawWord against the round's rhyme set and
// appends the resulting guess. A word already played this round is
// rejected with ErrDuplicateGuess and nothing is appended.
func (that *WordRound) SubmitGuess(rawWord, playerID string, submittedAt time.Time) (*Guess, error) {
	word := normalizeWord(rawWord)

	if that.HasBeenPlayed(word) {
		return nil, apperror.ErrDuplicateGuess
	}

	guess := Guess{
		Word:        word,
		PlayerID:    playerID,
		Category:    CategoryNope,
		SubmittedAt: submittedAt,
	}

	for _, rhyme := range that.ValidRhymes {
		if normalizeWord(rhyme.Word) == word {
			guess.IsValid = true
			guess.Category = rhyme.Category

			break
		}
	}

	that.Guesses = append(that.Guesses, guess)

	return &guess, nil
}

// IsFinished reports whether every player who guessed this round has
// used up the per-player move budget. A round with no guesses is never
// finished, and total guess count alone never finishes a round.
func (that *WordRound) IsFinished(maxMovesPerPlayer int) bool {
	if len(that.Guesses) == 0 {
		return false
	}

	for _, moves := range that.GuessCounts() {
		if moves < maxMovesPerPlayer {
			return false
		}
	}

	return true
}

// GuessCounts returns the per-player guess tallies for this round.
func (that *WordRound) GuessCounts() map[string]int {
	counts := make(map[string]int, len(that.Guesses))
	for _, guess := range that.Guesses {
		counts[guess.PlayerID]++
	}

	return counts
}

// StripValidRhymes drops the rhyme set before long-term persistence.
func (that *WordRound) StripValidRhymes() {
	that.ValidRhymes = nil
}

func normalizeWord(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
