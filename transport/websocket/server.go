package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thedivtagguy/rhymer/internal/apperror"
)

type session interface {
	OnStart(ctx context.Context, roomID string) error
	OnConnect(ctx context.Context, roomID, connID string) error
	OnMessage(ctx context.Context, roomID, connID string, raw []byte) error
	OnClose(ctx context.Context, roomID, connID string) error
}

type Server struct {
	logger  *slog.Logger
	session session
	hub     *Hub

	upgrader websocket.Upgrader

	mu      sync.Mutex
	started map[string]bool
}

func New(logger *slog.Logger, session session, hub *Hub) *Server {
	return &Server{
		logger:  logger,
		session: session,
		hub:     hub,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		started: make(map[string]bool),
	}
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/rooms/", func(w http.ResponseWriter, r *http.Request) {
		that.handleRoom(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// handleRoom upgrades GET /rooms/{roomID}/ws and runs the connection's
// read loop until the client goes away.
func (that *Server) handleRoom(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleRoom")

	roomID, ok := parseRoomPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	log = log.With("roomID", roomID)

	if err := that.ensureStarted(ctx, roomID); err != nil {
		log.Error("failed to start room session", "error", err)
		http.Error(w, "room unavailable", http.StatusServiceUnavailable)

		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	log = log.With("connID", connID)

	// Join before OnConnect so a room_full notice still reaches the
	// rejected connection.
	that.hub.Join(roomID, connID, conn)

	if err = that.session.OnConnect(ctx, roomID, connID); err != nil {
		if errors.Is(err, apperror.ErrRoomFull) {
			log.Info("connection rejected, room full")
		} else {
			log.Error("failed to connect player", "error", err)
		}

		that.hub.Leave(roomID, connID)

		return
	}

	log.Info("player connected")

	that.readLoop(ctx, roomID, connID, conn)

	that.hub.Leave(roomID, connID)

	if err = that.session.OnClose(ctx, roomID, connID); err != nil {
		log.Error("failed to handle disconnect", "error", err)
	}

	log.Info("player disconnected")
}

func (that *Server) readLoop(ctx context.Context, roomID, connID string, conn *websocket.Conn) {
	log := that.logger.With("method", "readLoop", "roomID", roomID, "connID", connID)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		if err = that.session.OnMessage(ctx, roomID, connID, raw); err != nil {
			log.Error("failed to handle message", "error", err)
		}
	}
}

// ensureStarted runs the room's start event exactly once per process.
func (that *Server) ensureStarted(ctx context.Context, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.started[roomID] {
		return nil
	}

	if err := that.session.OnStart(ctx, roomID); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	that.started[roomID] = true

	return nil
}

// parseRoomPath extracts the room id from /rooms/{roomID}/ws.
func parseRoomPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/rooms/")
	if !ok {
		return "", false
	}

	roomID, ok := strings.CutSuffix(rest, "/ws")
	if !ok || roomID == "" || strings.Contains(roomID, "/") {
		return "", false
	}

	return roomID, true
}
