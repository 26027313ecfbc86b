package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thedivtagguy/rhymer/internal/apperror"
	"github.com/thedivtagguy/rhymer/internal/entity"
	"github.com/thedivtagguy/rhymer/internal/words"
)

const revealWriteTimeout = 10 * time.Second

type sessionRepo interface {
	Load(ctx context.Context, roomID string) (entity.Roster, *entity.GameState, error)
	Save(ctx context.Context, roomID string, roster entity.Roster, state *entity.GameState) error
	Delete(ctx context.Context, roomID string) error
}

type roomDirectory interface {
	GetMaxPlayers(ctx context.Context, roomID string) (int, error)
}

type roundSource interface {
	NewPlayableRound(ctx context.Context, mode words.Mode) *entity.WordRound
}

type broadcaster interface {
	Broadcast(roomID string, payload any)
	Send(roomID, connID string, payload any)
}

// Settings are the game rule knobs of a session.
type Settings struct {
	MaxRounds         int
	MaxMovesPerPlayer int
	RevealDelay       time.Duration
}

// SessionManager drives the per-room game session: it reacts to the
// transport's start/connect/message/close events, mutates the
// persisted roster and game state, and broadcasts the resulting view.
// Events of one room are serialized behind a per-room lock, so a
// handler always sees and writes a single coherent state.
type SessionManager struct {
	logger *slog.Logger

	sessions sessionRepo
	rooms    roomDirectory
	rounds   roundSource
	events   broadcaster

	settings Settings
	now      func() time.Time

	mu      sync.Mutex
	locks   map[string]*sync.Mutex
	reveals map[string]*time.Timer
}

func NewSessionManager(logger *slog.Logger, sessions sessionRepo, rooms roomDirectory, rounds roundSource, events broadcaster, settings Settings) *SessionManager {
	if settings.MaxRounds == 0 {
		settings.MaxRounds = entity.DefaultMaxRounds
	}

	if settings.MaxMovesPerPlayer == 0 {
		settings.MaxMovesPerPlayer = entity.DefaultMaxMovesPerPlayer
	}

	if settings.RevealDelay == 0 {
		settings.RevealDelay = 5 * time.Second
	}

	return &SessionManager{
		logger: logger,

		sessions: sessions,
		rooms:    rooms,
		rounds:   rounds,
		events:   events,

		settings: settings,
		now:      time.Now,

		locks:   make(map[string]*sync.Mutex),
		reveals: make(map[string]*time.Timer),
	}
}

// OnStart initializes the room session: one fresh round, an empty
// roster, no current player. It runs before any connection is admitted.
func (that *SessionManager) OnStart(ctx context.Context, roomID string) error {
	lock := that.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	_, err := that.resetSession(ctx, roomID)

	return err
}

// OnConnect admits a connection into the room roster. Capacity is read
// from the room directory; if the directory is unreachable the connect
// fails closed rather than silently admitting unlimited players.
func (that *SessionManager) OnConnect(ctx context.Context, roomID, connID string) error {
	lock := that.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	roster, state, err := that.sessions.Load(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	maxPlayers, err := that.rooms.GetMaxPlayers(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room capacity: %w", err)
	}

	if roster.Size() >= maxPlayers {
		// Only the rejected connection needs to hear about this.
		that.events.Send(roomID, connID, RoomFullMessage{
			Type:         msgTypeRoomFull,
			RoomFull:     true,
			ConnectionID: connID,
		})

		return apperror.ErrRoomFull
	}

	roster.Add(connID)
	state.Session.PlayerCount = roster.Size()
	state.Session.RoomID = roomID

	// The first joiner becomes the current player.
	if state.Session.CurrentPlayerID == "" {
		state.Session.CurrentPlayerID = roster.NextAfter("")
	}

	if err = that.sessions.Save(ctx, roomID, roster, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	that.broadcastSync(roomID, connID, state)

	return nil
}

// OnMessage handles one inbound frame. Only rhyme messages addressed
// to this room are processed; everything else is silently ignored.
func (that *SessionManager) OnMessage(ctx context.Context, roomID, connID string, raw []byte) error {
	msg, ok := parseInbound(raw)
	if !ok || msg.Type != inboundTypeRhyme || msg.Room != roomID || msg.Rhyme == nil {
		return nil
	}

	lock := that.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	roster, state, err := that.sessions.Load(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	// Guesses landing mid-reveal would mutate a round that is already
	// being promoted away; drop them.
	if state.Session.RevealInProgress {
		return nil
	}

	round := state.CurrentRound()

	guess, err := round.SubmitGuess(msg.Rhyme.Word, connID, that.now())
	if errors.Is(err, apperror.ErrDuplicateGuess) {
		that.events.Broadcast(roomID, PlayedWordMessage{
			Type: msgTypePlayedWord,
			Word: msg.Rhyme.Word,
			User: connID,
		})

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to submit guess: %w", err)
	}

	if !round.IsFinished(that.settings.MaxMovesPerPlayer) {
		if state.Session.CurrentPlayerID == connID {
			state.Session.CurrentPlayerID = roster.NextAfter(connID)
		}

		if err = that.sessions.Save(ctx, roomID, roster, state); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		that.broadcastSync(roomID, connID, state)

		return nil
	}

	that.logger.Info("round finished",
		"roomID", roomID, "word", round.TargetWord, "lastGuess", guess.Word)

	// Round complete: show the collected guesses now, move on after
	// the reveal delay.
	state.Session.RevealInProgress = true

	if err = that.sessions.Save(ctx, roomID, roster, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	that.events.Broadcast(roomID, ProgressMessage{
		Type:     msgTypeProgress,
		MaxMoves: that.settings.MaxMovesPerPlayer,
		Progress: round.GuessCounts(),
	})
	that.events.Broadcast(roomID, RevealGuessesMessage{Type: msgTypeRevealGuesses})

	that.scheduleReveal(roomID)

	return nil
}

// OnClose removes a departing connection from the roster. When the
// last player leaves, the whole session is reset to a fresh initial
// state; otherwise the turn advances only if the departing player held
// it.
func (that *SessionManager) OnClose(ctx context.Context, roomID, connID string) error {
	lock := that.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	roster, state, err := that.sessions.Load(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if !roster.Remove(connID) {
		return nil
	}

	state.Session.PlayerCount = roster.Size()

	if roster.Size() == 0 {
		that.cancelReveal(roomID)

		fresh, resetErr := that.resetSession(ctx, roomID)
		if resetErr != nil {
			return fmt.Errorf("failed to reset session: %w", resetErr)
		}

		that.events.Broadcast(roomID, PlayerLeftMessage{Type: msgTypePlayerLeft, PlayerID: connID})
		that.broadcastSync(roomID, "", fresh)

		return nil
	}

	if state.Session.CurrentPlayerID == connID {
		state.Session.CurrentPlayerID = roster.NextAfter(connID)
	}

	if err = that.sessions.Save(ctx, roomID, roster, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	that.events.Broadcast(roomID, PlayerLeftMessage{Type: msgTypePlayerLeft, PlayerID: connID})
	that.broadcastSync(roomID, "", state)

	return nil
}

// resetSession writes a fresh initial state for the room and returns
// it. The caller must hold the room lock.
func (that *SessionManager) resetSession(ctx context.Context, roomID string) (*entity.GameState, error) {
	round := that.rounds.NewPlayableRound(ctx, words.ModeRandom)

	state := entity.NewGameState(roomID, round, that.now())
	state.Session.RoomID = roomID

	if err := that.sessions.Save(ctx, roomID, entity.Roster{}, state); err != nil {
		return nil, fmt.Errorf("failed to save initial session: %w", err)
	}

	return state, nil
}

// scheduleReveal arms the room's reveal timer, replacing a pending
// one. The timer is tracked per room so teardown can suppress a stale
// write.
func (that *SessionManager) scheduleReveal(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if timer, ok := that.reveals[roomID]; ok {
		timer.Stop()
	}

	that.reveals[roomID] = time.AfterFunc(that.settings.RevealDelay, func() {
		that.finishReveal(roomID)
	})
}

func (that *SessionManager) cancelReveal(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if timer, ok := that.reveals[roomID]; ok {
		timer.Stop()
		delete(that.reveals, roomID)
	}
}

// finishReveal runs when the reveal delay elapses. The roster may have
// changed during the delay, so state is re-read under the room lock
// before anything is written.
func (that *SessionManager) finishReveal(roomID string) {
	log := that.logger.With("method", "finishReveal", "roomID", roomID)

	ctx, cancel := context.WithTimeout(context.Background(), revealWriteTimeout)
	defer cancel()

	lock := that.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	that.mu.Lock()
	delete(that.reveals, roomID)
	that.mu.Unlock()

	roster, state, err := that.sessions.Load(ctx, roomID)
	if err != nil {
		log.Error("failed to load session", "error", err)
		return
	}

	// A room reset may have landed while this callback waited on the
	// room lock; the reset writes a fresh state with the flag clear,
	// and a stale callback must not touch it.
	if !state.Session.RevealInProgress {
		return
	}

	state.Session.RevealInProgress = false

	if state.IsGameFinished(that.settings.MaxRounds) {
		rankings := state.CalculateRankings()

		that.events.Broadcast(roomID, GameFinishedMessage{
			Type:     msgTypeGameFinished,
			Rankings: rankings,
		})

		// Rhyme sets are only needed for live scoring; drop them
		// before the final persist.
		state.StripValidRhymes()

		if err = that.sessions.Save(ctx, roomID, roster, state); err != nil {
			log.Error("failed to save finished game", "error", err)
		}

		log.Info("game finished", "players", len(rankings))

		return
	}

	round := that.rounds.NewPlayableRound(ctx, words.ModeRandom)
	state.AppendRound(round)
	state.Session.CurrentPlayerID = roster.NextAfter(state.Session.CurrentPlayerID)

	if err = that.sessions.Save(ctx, roomID, roster, state); err != nil {
		log.Error("failed to save session", "error", err)
		return
	}

	that.broadcastSync(roomID, "", state)
}

func (that *SessionManager) broadcastSync(roomID, actorID string, state *entity.GameState) {
	that.events.Broadcast(roomID, SyncMessage{
		Type:            msgTypeSync,
		GameState:       state,
		CurrentPlayerID: actorID,
		NextPlayerID:    state.Session.CurrentPlayerID,
	})
}

func (that *SessionManager) roomLock(roomID string) *sync.Mutex {
	that.mu.Lock()
	defer that.mu.Unlock()

	lock, ok := that.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[roomID] = lock
	}

	return lock
}
