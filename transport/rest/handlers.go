package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thedivtagguy/rhymer/internal/apperror"
	"github.com/thedivtagguy/rhymer/internal/entity"
)

type roomService interface {
	Create(ctx context.Context, room *entity.Room) error
	GetMaxPlayers(ctx context.Context, roomID string) (int, error)
}

type createRoomRequest struct {
	RoomID     string `json:"roomId"`
	MaxPlayers int    `json:"maxPlayers" binding:"required,min=1"`
}

func (that *Server) handlePing(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func (that *Server) handleCreateRoom(c *gin.Context) {
	log := that.logger.With("method", "handleCreateRoom")

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RoomID == "" {
		req.RoomID = uuid.NewString()
	}

	room := &entity.Room{ID: req.RoomID, MaxPlayers: req.MaxPlayers}

	if err := that.rooms.Create(c.Request.Context(), room); err != nil {
		if errors.Is(err, apperror.ErrRoomAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "room already exists"})
			return
		}

		log.Error("failed to create room", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})

		return
	}

	log.Info("room created", "roomID", room.ID, "maxPlayers", room.MaxPlayers)

	c.JSON(http.StatusOK, gin.H{"success": true, "room": room})
}

func (that *Server) handleGetRoom(c *gin.Context) {
	log := that.logger.With("method", "handleGetRoom")

	roomID := c.Param("id")

	maxPlayers, err := that.rooms.GetMaxPlayers(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, apperror.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}

		log.Error("failed to get room", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get room"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"roomId": roomID, "maxPlayers": maxPlayers})
}
