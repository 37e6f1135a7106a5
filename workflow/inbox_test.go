package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInboxPaging(t *testing.T) {
	f := newFixture(t)
	f.fileCase(t)

	page, err := f.engine.ListNotifications(ctx, f.citizen, false, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	assert.EqualValues(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.EqualValues(t, 4, page.UnreadCount)

	page, err = f.engine.ListNotifications(ctx, f.citizen, false, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Notifications)
	assert.NotNil(t, page.Notifications)

	page, err = f.engine.ListNotifications(ctx, f.citizen, true, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.Limit)
}

func TestInboxReadAndDelete(t *testing.T) {
	f := newFixture(t)
	f.fileComplaint(t)
	notifications := f.inbox(t, f.citizen)
	require.Len(t, notifications, 1)
	id := notifications[0].ID

	assert.ErrorIs(t, f.engine.MarkRead(ctx, f.officer, id), ErrUnauthorized)
	assert.ErrorIs(t, f.engine.DeleteNotification(ctx, f.neighbor, id), ErrUnauthorized)
	assert.ErrorIs(t, f.engine.MarkRead(ctx, f.citizen, primitive.NewObjectID()), ErrNotFound)

	require.NoError(t, f.engine.MarkRead(ctx, f.citizen, id))
	unread, err := f.engine.UnreadCount(ctx, f.citizen)
	require.NoError(t, err)
	assert.Zero(t, unread)

	require.NoError(t, f.engine.DeleteNotification(ctx, f.citizen, id))
	assert.Empty(t, f.inbox(t, f.citizen))
	assert.ErrorIs(t, f.engine.DeleteNotification(ctx, f.citizen, id), ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	f := newFixture(t)
	f.fileFIR(t)

	changed, err := f.engine.MarkAllRead(ctx, f.citizen)
	require.NoError(t, err)
	assert.EqualValues(t, 3, changed)

	unread, err := f.engine.UnreadCount(ctx, f.citizen)
	require.NoError(t, err)
	assert.Zero(t, unread)
	assert.NotEmpty(t, f.inbox(t, f.officer))
}
