package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thedivtagguy/rhymer/internal/config"
	"github.com/thedivtagguy/rhymer/internal/repository"
	"github.com/thedivtagguy/rhymer/internal/repository/storage"
	"github.com/thedivtagguy/rhymer/internal/repository/storage/sqlite"
	"github.com/thedivtagguy/rhymer/internal/rhyme"
	"github.com/thedivtagguy/rhymer/internal/usecase"
	"github.com/thedivtagguy/rhymer/internal/words"
	"github.com/thedivtagguy/rhymer/transport/rest"
	"github.com/thedivtagguy/rhymer/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := sqlite.New(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	sessionRepo := repository.NewSessionRepository(redisStorage.Connection)

	roomRepo, err := repository.NewRoomRepository(sqliteStorage.Connection)
	if err != nil {
		return fmt.Errorf("could not init room repository: %w", err)
	}

	selector := words.NewSelector()
	rhymeClient := rhyme.NewClient(logger, conf.RhymeAPI.BaseURL, conf.RhymeAPI.GetTimeout(), selector)

	hub := websocket.NewHub(logger)
	sessionManager := usecase.NewSessionManager(logger, sessionRepo, roomRepo, rhymeClient, hub, usecase.Settings{
		MaxRounds:         conf.Game.MaxRounds,
		MaxMovesPerPlayer: conf.Game.MaxMovesPerPlayer,
		RevealDelay:       conf.Game.GetRevealDelay(),
	})

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, roomRepo)
		if httpErr := restServer.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, sessionManager, hub)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
