package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneytrack/internal/core"
)

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t)
	u := newTestUser(t, repo, "notify@example.com", "UTC")
	other := newTestUser(t, repo, "someone@example.com", "UTC")
	svc := NewNotificationService(repo)

	_, err := svc.Notify(ctx, u.ID, "")
	assert.ErrorIs(t, err, core.ErrValidation)

	first, err := svc.Notify(ctx, u.ID, "Budget Food was reset")
	require.NoError(t, err)
	_, err = svc.Notify(ctx, u.ID, "Gym posted")
	require.NoError(t, err)

	unread, err := svc.UnreadCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	list, err := svc.List(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Another user's id is indistinguishable from a missing one.
	assert.ErrorIs(t, svc.MarkRead(ctx, other.ID, first.ID), core.ErrNotFound)

	require.NoError(t, svc.MarkRead(ctx, u.ID, first.ID))
	unread, err = svc.UnreadCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	list, err = svc.List(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.Equal(t, n.ID == first.ID, n.Read, n.Message)
	}

	none, err := svc.List(ctx, other.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
