package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Lucifer-FallenAngel/cmoon-chat-appliction/internal/service"
	apperrors "github.com/Lucifer-FallenAngel/cmoon-chat-appliction/pkg/errors"
)

type MessageHandler interface {
	Send(c *gin.Context)
	History(c *gin.Context)
	ReadAll(c *gin.Context)
	DeleteForMe(c *gin.Context)
	ClearChat(c *gin.Context)
	Block(c *gin.Context)
	Unblock(c *gin.Context)
	IsBlocked(c *gin.Context)
}

type messageHandler struct {
	messages service.MessageService
	blocks   service.BlockService
}

func NewMessageHandler(messages service.MessageService, blocks service.BlockService) MessageHandler {
	return &messageHandler{
		messages: messages,
		blocks:   blocks,
	}
}

type sendRequest struct {
	SenderID    int64   `json:"sender_id"`
	ReceiverID  int64   `json:"receiver_id"`
	Message     string  `json:"message"`
	MessageType string  `json:"message_type"`
	FileURL     *string `json:"file_url"`
}

func (h *messageHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ErrMissingFields)
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), req.SenderID, req.ReceiverID, req.Message, req.MessageType, req.FileURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *messageHandler) History(c *gin.Context) {
	viewerID, err1 := strconv.ParseInt(c.Param("viewer"), 10, 64)
	peerID, err2 := strconv.ParseInt(c.Param("peer"), 10, 64)
	if err1 != nil || err2 != nil {
		respondError(c, apperrors.InvalidArg("viewer and peer must be numeric user ids"))
		return
	}

	msgs, err := h.messages.LoadHistory(c.Request.Context(), viewerID, peerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

type statusRequest struct {
	SenderID   int64 `json:"sender_id"`
	ReceiverID int64 `json:"receiver_id"`
}

func (h *messageHandler) ReadAll(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ErrMissingFields)
		return
	}

	if _, err := h.messages.MarkRead(c.Request.Context(), req.SenderID, req.ReceiverID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type deleteForMeRequest struct {
	MessageID string `json:"messageId"`
	UserID    int64  `json:"userId"`
}

func (h *messageHandler) DeleteForMe(c *gin.Context) {
	var req deleteForMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ErrMissingFields)
		return
	}

	if err := h.messages.DeleteForViewer(c.Request.Context(), req.MessageID, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type clearChatRequest struct {
	UserID      int64 `json:"userId"`
	OtherUserID int64 `json:"otherUserId"`
}

func (h *messageHandler) ClearChat(c *gin.Context) {
	var req clearChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ErrMissingFields)
		return
	}

	if err := h.messages.ClearConversation(c.Request.Context(), req.UserID, req.OtherUserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

type blockRequest struct {
	BlockerID int64 `json:"blocker_id"`
	BlockedID int64 `json:"blocked_id"`
}

func (h *messageHandler) Block(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ErrMissingFields)
		return
	}

	if err := h.blocks.Block(c.Request.Context(), req.BlockerID, req.BlockedID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *messageHandler) Unblock(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ErrMissingFields)
		return
	}

	if err := h.blocks.Unblock(c.Request.Context(), req.BlockerID, req.BlockedID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *messageHandler) IsBlocked(c *gin.Context) {
	me, err1 := strconv.ParseInt(c.Param("me"), 10, 64)
	other, err2 := strconv.ParseInt(c.Param("other"), 10, 64)
	if err1 != nil || err2 != nil {
		respondError(c, apperrors.InvalidArg("user ids must be numeric"))
		return
	}

	status, err := h.blocks.Status(c.Request.Context(), me, other)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
