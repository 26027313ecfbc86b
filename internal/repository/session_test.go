package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedivtagguy/rhymer/internal/apperror"
	"github.com/thedivtagguy/rhymer/internal/entity"
	"github.com/thedivtagguy/rhymer/internal/repository"
	"github.com/thedivtagguy/rhymer/testing/suite"
)

func testGameState(roomID string) *entity.GameState {
	stats := entity.Stats{Mean: 10, Cuts: entity.Cuts{P50: 12, P75: 18}, Total: 40}

	round := entity.NewRound("day", []entity.Rhyme{
		{Word: "way", Score: 20},
		{Word: "stay", Score: 14},
	}, stats)

	return entity.NewGameState(roomID, round, time.Now())
}

func TestSessionRepository_SaveAndLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx, s := suite.New(t)
	repo := repository.NewSessionRepository(s.Storage)

	// Given: a saved session with two players and one guess
	state := testGameState("room1")
	state.Session.CurrentPlayerID = "p2"

	_, err := state.CurrentRound().SubmitGuess("way", "p1", time.Now())
	require.NoError(t, err)

	roster := entity.Roster{"p1", "p2"}

	require.NoError(t, repo.Save(ctx, "room1", roster, state))

	// When: loading the session back
	gotRoster, gotState, err := repo.Load(ctx, "room1")

	// Then: roster and state round-trip intact
	require.NoError(t, err)
	assert.Equal(t, roster, gotRoster)
	assert.Equal(t, "p2", gotState.Session.CurrentPlayerID)
	require.Len(t, gotState.Rounds, 1)
	assert.Equal(t, "day", gotState.CurrentRound().TargetWord)
	require.Len(t, gotState.CurrentRound().Guesses, 1)
	assert.Equal(t, "way", gotState.CurrentRound().Guesses[0].Word)
	assert.True(t, gotState.CurrentRound().Guesses[0].IsValid)
}

func TestSessionRepository_LoadBeforeStart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx, s := suite.New(t)
	repo := repository.NewSessionRepository(s.Storage)

	// When: loading a room that was never started
	_, _, err := repo.Load(ctx, "ghost")

	// Then: the ordering error surfaces
	require.ErrorIs(t, err, apperror.ErrSessionNotStarted)
}

func TestSessionRepository_LoadWithoutPlayersKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx, s := suite.New(t)
	repo := repository.NewSessionRepository(s.Storage)

	// Given: a saved session whose players key was dropped
	require.NoError(t, repo.Save(ctx, "room1", entity.Roster{"p1"}, testGameState("room1")))
	require.NoError(t, s.Storage.Del(ctx, "room:room1:players").Err())

	// When: loading the session
	roster, state, err := repo.Load(ctx, "room1")

	// Then: the state survives with an empty roster
	require.NoError(t, err)
	assert.Empty(t, roster)
	assert.Equal(t, "day", state.CurrentRound().TargetWord)
}

func TestSessionRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx, s := suite.New(t)
	repo := repository.NewSessionRepository(s.Storage)

	// Given: a saved session
	require.NoError(t, repo.Save(ctx, "room1", entity.Roster{"p1"}, testGameState("room1")))

	// When: deleting it
	require.NoError(t, repo.Delete(ctx, "room1"))

	// Then: both keys are gone
	_, _, err := repo.Load(ctx, "room1")
	require.ErrorIs(t, err, apperror.ErrSessionNotStarted)
}
