package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles direct-message HTTP requests
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		userRepository:    userRepo,
	}
}

// RegisterMessageRoutes registers direct-message routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.GET("/conversations/:id", h.GetConversation)
	g.POST("/conversations/:id/seen", h.MarkConversationSeen)
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/unread-count", h.GetUnreadCount)
}

// EnrichedConversation is a conversation summary with the peer's summary
type EnrichedConversation struct {
	models.Conversation
	Peer models.UserCompact `json:"user"`
}

// GetConversations lists the caller's conversations, most recent first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	convs, err := h.messageRepository.GetConversations(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	dir := newUserDirectory(c, h.userRepository)
	enriched := make([]EnrichedConversation, len(convs))
	for i, conv := range convs {
		enriched[i] = EnrichedConversation{Conversation: conv, Peer: dir.compact(conv.PeerID)}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enriched})
}

// GetConversation returns the thread with the peer in the path, oldest first
func (h *MessageHandler) GetConversation(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	messages, err := h.messageRepository.GetConversationMessages(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": messages})
}

// MarkConversationSeen marks the peer's messages to the caller as seen
func (h *MessageHandler) MarkConversationSeen(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	n, err := h.messageRepository.MarkConversationSeen(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"marked": n}})
}

// SendMessage sends a direct message from the caller
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.messageRepository.SendMessage(c.Request().Context(), userID, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": msg})
}

// GetUnreadCount returns the number of unseen messages addressed to the caller
func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	n, err := h.messageRepository.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"unreadCount": n}})
}
