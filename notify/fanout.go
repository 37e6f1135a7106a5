// Package notify turns committed workflow transitions into per-recipient
// notifications, persists them, and pushes realtime and email copies.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/models"
	"github.com/linesmerrill/case-tracker-api/realtime"
)

// Mailer emails a notification to its recipient
type Mailer interface {
	Send(recipient models.User, n models.Notification) error
}

// Fanout delivers transition events to their audiences
type Fanout struct {
	notifications databases.NotificationDatabase
	users         databases.UserDatabase
	publisher     realtime.Publisher
	mailer        Mailer
	now           func() time.Time
}

// Option configures a Fanout
type Option func(*Fanout)

// WithMailer emails high and urgent notifications through m
func WithMailer(m Mailer) Option {
	return func(f *Fanout) { f.mailer = m }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(f *Fanout) { f.now = now }
}

// New returns a Fanout. publisher may be nil when no realtime channel is wired.
func New(notifications databases.NotificationDatabase, users databases.UserDatabase, publisher realtime.Publisher, opts ...Option) *Fanout {
	f := &Fanout{
		notifications: notifications,
		users:         users,
		publisher:     publisher,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type recipient struct {
	id   primitive.ObjectID
	role models.Role
	user *models.User
}

// resolve expands an audience into concrete recipients. Role audiences are
// read from the user store on every call.
func (f *Fanout) resolve(ctx context.Context, to audience, e Event) ([]recipient, error) {
	switch to {
	case toCitizen:
		return []recipient{{id: e.Complaint.Details.CitizenID, role: models.RoleCitizen}}, nil
	case toAssignedOfficer:
		if e.Complaint.Details.AssignedOfficer == nil {
			return nil, nil
		}
		return []recipient{{id: *e.Complaint.Details.AssignedOfficer, role: models.RolePolice}}, nil
	case toInvestigatingOfficer:
		if e.FIR == nil {
			return nil, nil
		}
		return []recipient{{id: e.FIR.Details.InvestigatingOfficerID, role: models.RolePolice}}, nil
	case toAllPolice, toAllCourt:
		role := models.RolePolice
		if to == toAllCourt {
			role = models.RoleCourt
		}
		users, err := f.users.FindByRole(ctx, role)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s users: %w", role, err)
		}
		out := make([]recipient, 0, len(users))
		for i := range users {
			out = append(out, recipient{id: users[i].ID, role: role, user: &users[i]})
		}
		return out, nil
	}
	return nil, nil
}

// Notify persists one notification per recipient of e and publishes them.
// The returned notifications are the ones stored; a non-nil error describes
// the parts of delivery that failed and never means the transition failed.
func (f *Fanout) Notify(ctx context.Context, e Event) ([]models.Notification, error) {
	p, err := planFor(e)
	if err != nil {
		return nil, err
	}

	var errs []error
	var batch []models.Notification
	users := map[primitive.ObjectID]*models.User{}
	created := primitive.NewDateTimeFromTime(f.now())

	for _, m := range p.messages {
		recipients, err := f.resolve(ctx, m.to, e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, r := range recipients {
			batch = append(batch, models.Notification{
				ID:            primitive.NewObjectID(),
				RecipientID:   r.id,
				RecipientRole: r.role,
				Type:          m.kind,
				Title:         m.title,
				Message:       m.body,
				RelatedID:     p.relatedID,
				RelatedType:   p.relatedType,
				Priority:      m.priority,
				CreatedAt:     created,
			})
			if r.user != nil {
				users[r.id] = r.user
			}
		}
	}

	if err := f.notifications.InsertMany(ctx, batch); err != nil {
		errs = append(errs, fmt.Errorf("failed to store %d notifications: %w", len(batch), err))
		return nil, errors.Join(errs...)
	}

	f.publish(p, batch)

	if f.mailer != nil {
		errs = append(errs, f.email(ctx, batch, users)...)
	}

	zap.S().Debugw("notifications delivered", "kind", e.Kind, "relatedID", p.relatedID.Hex(), "count", len(batch))
	return batch, errors.Join(errs...)
}

func (f *Fanout) publish(p plan, batch []models.Notification) {
	if f.publisher == nil {
		return
	}
	timestamp := f.now().UTC()
	event := func(kind string) realtime.Event {
		return realtime.Event{
			EventID:    uuid.NewString(),
			EntityID:   p.relatedID.Hex(),
			EntityType: p.relatedType,
			Type:       kind,
			Timestamp:  timestamp,
		}
	}
	for _, n := range batch {
		f.publisher.Publish(realtime.UserRoom(n.RecipientID), realtime.EventNotification, event(n.Type))
	}
	if p.broadcast != "" {
		f.publisher.Publish(realtime.RoleRoom(p.broadcastRole), p.broadcast, event(p.broadcast))
	}
}

func (f *Fanout) email(ctx context.Context, batch []models.Notification, known map[primitive.ObjectID]*models.User) []error {
	var errs []error
	for _, n := range batch {
		if n.Priority != models.PriorityHigh && n.Priority != models.PriorityUrgent {
			continue
		}
		u := known[n.RecipientID]
		if u == nil {
			found, err := f.users.FindByID(ctx, n.RecipientID)
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to load recipient %s: %w", n.RecipientID.Hex(), err))
				continue
			}
			u = found
		}
		if u.Details.Email == "" {
			continue
		}
		if err := f.mailer.Send(*u, n); err != nil {
			errs = append(errs, fmt.Errorf("failed to email %s: %w", n.RecipientID.Hex(), err))
		}
	}
	return errs
}
