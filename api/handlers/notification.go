package handlers

import (
	"net/http"

	"github.com/linesmerrill/case-tracker-api/api"
	"github.com/linesmerrill/case-tracker-api/realtime"
	"github.com/linesmerrill/case-tracker-api/workflow"
)

// Notification exported for testing purposes
type Notification struct {
	Engine *workflow.Engine
	Hub    *realtime.Hub
}

// NotificationsHandler returns one page of the caller's inbox
func (n Notification) NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	page, err := n.Engine.ListNotifications(ctx, actor,
		r.URL.Query().Get("unread") == "true",
		queryInt(r, "page", 1),
		queryInt(r, "limit", workflow.DefaultPageSize),
	)
	if err != nil {
		engineError("failed to get notifications", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// UnreadCountHandler returns how many notifications the caller has not read
func (n Notification) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	count, err := n.Engine.UnreadCount(ctx, actor)
	if err != nil {
		engineError("failed to count notifications", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unreadCount": count})
}

// MarkReadHandler marks one notification read
func (n Notification) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "notification_id")
	if !ok {
		return
	}
	if err := n.Engine.MarkRead(r.Context(), actor, id); err != nil {
		engineError("failed to mark notification read", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

// MarkAllReadHandler marks every notification of the caller read
func (n Notification) MarkAllReadHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	updated, err := n.Engine.MarkAllRead(r.Context(), actor)
	if err != nil {
		engineError("failed to mark notifications read", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

// DeleteNotificationHandler removes one notification
func (n Notification) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, ok := objectID(w, r, "notification_id")
	if !ok {
		return
	}
	if err := n.Engine.DeleteNotification(r.Context(), actor, id); err != nil {
		engineError("failed to delete notification", w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}

// NotificationsWebSocketHandler subscribes the caller to their user room and
// role room
func (n Notification) NotificationsWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	n.Hub.ServeWS(w, r, realtime.UserRoom(actor.ID), realtime.RoleRoom(actor.Role()))
}
