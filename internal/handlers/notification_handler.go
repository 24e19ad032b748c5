package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/inbox"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

func (h *NotificationHandler) enrichNotifications(dir *userDirectory, notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n, Actor: dir.compact(n.ActorID)}
	}
	return enriched
}

// GetNotifications returns paginated notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	page, limit := pagination(c, 20)

	notifications, err := h.notificationRepository.GetByRecipient(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	pageItems, _ := inbox.Page(notifications, page, limit)
	dir := newUserDirectory(c, h.userRepository)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": h.enrichNotifications(dir, pageItems),
		},
		"meta": pageMeta(page, limit, len(notifications)),
	})
}

// GetGroupedNotifications returns notifications grouped by time period
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	grouped, err := h.notificationRepository.GetGrouped(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	unreadCount, err := h.notificationRepository.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}

	dir := newUserDirectory(c, h.userRepository)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": echo.Map{
				"today":     h.enrichNotifications(dir, grouped.Today),
				"yesterday": h.enrichNotifications(dir, grouped.Yesterday),
				"thisWeek":  h.enrichNotifications(dir, grouped.ThisWeek),
				"older":     h.enrichNotifications(dir, grouped.Older),
			},
			"unreadCount": unreadCount,
		},
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	count, err := h.notificationRepository.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"unreadCount": count}})
}

// MarkAsRead marks one of the caller's notifications read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all of the caller's notifications read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	n, err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"marked": n}})
}
