package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prlifecycle/internal/domain"
	"prlifecycle/internal/domain/directory"
	"prlifecycle/internal/domain/pr"
	"prlifecycle/internal/infrastructure/memstore"
)

type uowStub struct{}

func (uowStub) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type eventBusFake struct{ events []domain.Event }

func (e *eventBusFake) Publish(ctx context.Context, ev domain.Event) { e.events = append(e.events, ev) }

func TestAddBranch(t *testing.T) {
	ctx := context.Background()
	branches := memstore.NewBranches()
	events := &eventBusFake{}
	svc := directory.NewService(uowStub{}, branches, memstore.NewUsers(), events)

	name, err := svc.AddBranch(ctx, "refs/heads/main")
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/main", name.String())

	ok, err := branches.Exists(ctx, name)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, events.events, 1)
	assert.Equal(t, "branch.created", events.events[0].Type)

	_, err = svc.AddBranch(ctx, "refs/heads/main")
	assert.ErrorIs(t, err, directory.ErrBranchExists)

	_, err = svc.AddBranch(ctx, "main")
	assert.ErrorIs(t, err, pr.ErrInvalidBranchName)
	assert.Len(t, events.events, 1)
}

func TestAddUserAndSetActive(t *testing.T) {
	ctx := context.Background()
	users := memstore.NewUsers()
	events := &eventBusFake{}
	svc := directory.NewService(uowStub{}, memstore.NewBranches(), users, events)

	u, err := svc.AddUser(ctx, directory.User{ID: "u1", Username: "Alice", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, pr.UserID("u1"), u.ID)

	active, err := users.IsActive(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, active)

	u, err = svc.SetUserActive(ctx, "u1", false)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	assert.Equal(t, "Alice", u.Username)

	active, err = users.IsActive(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, active)

	assert.Equal(t, "user.set_active", events.events[len(events.events)-1].Type)
	assert.Equal(t, false, events.events[len(events.events)-1].Payload["is_active"])

	_, err = svc.SetUserActive(ctx, "ghost", true)
	assert.ErrorIs(t, err, directory.ErrUserNotFound)
}
