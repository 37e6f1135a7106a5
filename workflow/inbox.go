package workflow

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/case-tracker-api/models"
)

// DefaultPageSize is used when a listing asks for no limit
const DefaultPageSize = 10

// ListNotifications returns one page of the actor's inbox, newest first
func (e *Engine) ListNotifications(ctx context.Context, actor models.Actor, unreadOnly bool, page, limit int) (*models.NotificationPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	notifications, err := e.notifications.FindByRecipient(ctx, actor.ID, unreadOnly, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	total, err := e.notifications.CountByRecipient(ctx, actor.ID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	unread := total
	if !unreadOnly {
		if unread, err = e.notifications.CountByRecipient(ctx, actor.ID, true); err != nil {
			return nil, fmt.Errorf("failed to count unread notifications: %w", err)
		}
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return &models.NotificationPage{
		Notifications: notifications,
		Page:          page,
		Limit:         limit,
		Total:         total,
		TotalPages:    int((total + int64(limit) - 1) / int64(limit)),
		UnreadCount:   unread,
	}, nil
}

// UnreadCount returns how many of the actor's notifications are unread
func (e *Engine) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	n, err := e.notifications.CountByRecipient(ctx, actor.ID, true)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// ownNotification loads a notification addressed to actor
func (e *Engine) ownNotification(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	n, err := e.notifications.FindByID(ctx, id)
	if err != nil {
		return storeError("notification", id, err)
	}
	if n.RecipientID != actor.ID {
		return unauthorized("notification access", "notification", id)
	}
	return nil
}

// MarkRead flags one of the actor's notifications as read
func (e *Engine) MarkRead(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := e.ownNotification(ctx, actor, id); err != nil {
		return err
	}
	if err := e.notifications.MarkRead(ctx, id); err != nil {
		return storeError("notification", id, err)
	}
	return nil
}

// MarkAllRead flags every unread notification of the actor and returns how many changed
func (e *Engine) MarkAllRead(ctx context.Context, actor models.Actor) (int64, error) {
	n, err := e.notifications.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

// DeleteNotification removes one of the actor's notifications
func (e *Engine) DeleteNotification(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := e.ownNotification(ctx, actor, id); err != nil {
		return err
	}
	if err := e.notifications.DeleteOne(ctx, id); err != nil {
		return storeError("notification", id, err)
	}
	return nil
}
