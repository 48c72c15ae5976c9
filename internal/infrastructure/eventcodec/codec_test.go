package eventcodec_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prlifecycle/internal/domain/pr"
	"prlifecycle/internal/infrastructure/eventcodec"
)

func TestEncodeDecodeCreated(t *testing.T) {
	created := pr.CreatedEvent{
		Owner:                       "alice",
		SourceBranch:                pr.MustBranchName("refs/heads/foo"),
		TargetBranch:                pr.MustBranchName("refs/heads/main"),
		Title:                       pr.MustTitle("Add retries"),
		Description:                 "wraps the client",
		CheckForLinkedWorkItemsMode: pr.ModeEnabled,
	}

	typ, payload, err := eventcodec.Encode(created)
	require.NoError(t, err)
	assert.Equal(t, "pr.created", typ)
	assert.Contains(t, string(payload), `"source_branch":"refs/heads/foo"`)

	got, err := eventcodec.Decode(typ, payload)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestDecodeEveryType(t *testing.T) {
	for _, typ := range pr.EventTypes() {
		e, err := eventcodec.Decode(string(typ), nil)
		require.NoError(t, err, typ)
		assert.Equal(t, typ, e.EventType())
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := eventcodec.Decode("pr.merged", []byte("{}"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pr.ErrUnknownEventType))
}

func TestDecodeRejectsInvalidBranch(t *testing.T) {
	_, err := eventcodec.Decode(string(pr.EventTargetBranchChanged), []byte(`{"target_branch":"main"}`))
	require.Error(t, err)
}
