package rhyme

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/thedivtagguy/rhymer/internal/entity"
	"github.com/thedivtagguy/rhymer/internal/words"
)

// Rhyme sets at or below this size carry too little information for a
// playable round and trigger a re-roll.
const (
	lowInformationTotal = 18
	maxFetchAttempts    = 3
)

// RoundData is the provider's answer for one word: the candidate
// rhymes and their score distribution.
type RoundData struct {
	Candidates []entity.Rhyme
	Stats      entity.Stats
}

type wordPicker interface {
	Select(mode words.Mode) string
}

// Client fetches rhyme sets from the external provider.
type Client struct {
	logger  *slog.Logger
	baseURL string
	picker  wordPicker
	client  *http.Client
}

func NewClient(logger *slog.Logger, baseURL string, timeout time.Duration, picker wordPicker) *Client {
	return &Client{
		logger:  logger,
		baseURL: baseURL,
		picker:  picker,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchRoundData returns the rhyme set for word. Provider failures,
// non-2xx statuses and malformed payloads all degrade to an empty
// result so a round can always start; every guess in such a round is
// simply invalid.
func (that *Client) FetchRoundData(ctx context.Context, word string) RoundData {
	log := that.logger.With("method", "FetchRoundData", "word", word)

	empty := RoundData{Candidates: []entity.Rhyme{}}

	endpoint := fmt.Sprintf("%s/words/%s.json", that.baseURL, url.PathEscape(word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Error("failed to build request", "error", err)
		return empty
	}

	resp, err := that.client.Do(req)
	if err != nil {
		log.Error("failed to fetch rhymes", "error", err)
		return empty
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("provider returned non-OK status", "status", resp.StatusCode)
		return empty
	}

	var payload providerPayload
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Error("failed to decode provider payload", "error", err)
		return empty
	}

	if payload.Words == nil {
		log.Warn("provider payload has no words field")
		return empty
	}

	candidates := make([]entity.Rhyme, 0, len(payload.Words))
	for _, entry := range payload.Words {
		candidates = append(candidates, entity.Rhyme{Word: entry.Word, Score: entry.Score})
	}

	return RoundData{Candidates: candidates, Stats: payload.Stats}
}

// NewPlayableRound picks a target word and fetches its rhyme set,
// re-rolling a fresh random word while the provider reports an
// unplayably small set. The result of the last attempt is accepted
// as-is, even when empty.
func (that *Client) NewPlayableRound(ctx context.Context, mode words.Mode) *entity.WordRound {
	word := that.picker.Select(mode)
	data := that.FetchRoundData(ctx, word)

	for attempt := 1; attempt < maxFetchAttempts && data.Stats.Total <= lowInformationTotal; attempt++ {
		word = that.picker.Select(words.ModeRandom)
		data = that.FetchRoundData(ctx, word)
	}

	return entity.NewRound(word, data.Candidates, data.Stats)
}

type providerPayload struct {
	Words []providerWord `json:"words"`
	Stats entity.Stats   `json:"stats"`
}

type providerWord struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}
