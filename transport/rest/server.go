package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Server struct {
	logger *slog.Logger
	rooms  roomService
}

func New(logger *slog.Logger, rooms roomService) *Server {
	return &Server{
		logger: logger,
		rooms:  rooms,
	}
}

func (that *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/ping", that.handlePing)
	router.POST("/rooms", that.handleCreateRoom)
	router.GET("/rooms/:id", that.handleGetRoom)

	return router
}

// Start - starts the REST server for room registration.
func (that *Server) Start(port string) error {
	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
