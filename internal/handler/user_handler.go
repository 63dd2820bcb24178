package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/service"
	apperrors "github.com/Lucifer-FallenAngel/cmoon-chat-appliction/pkg/errors"
)

type UserHandler interface {
	ListUsers(c *gin.Context)
}

type userHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) UserHandler {
	return &userHandler{
		service: service,
	}
}

// ListUsers returns the roster with unread counts for the requesting
// user.
func (h *userHandler) ListUsers(c *gin.Context) {
	myID, err := strconv.ParseInt(c.Query("myId"), 10, 64)
	if err != nil || myID == 0 {
		respondError(c, apperrors.InvalidArg("myId query parameter is required"))
		return
	}

	users, err := h.service.ListRoster(c.Request.Context(), myID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
