package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handover/internal/client/models"
	"handover/pkg/platform/sentinel"
)

func TestInMemoryDirectory(t *testing.T) {
	dir := NewInMemoryDirectory()
	ctx := context.Background()

	client, err := models.NewRegisteredClient(
		"consumer-web", "Consumer Web", "",
		[]string{"https://consumer.example.com/callback"},
		time.Now(),
	)
	require.NoError(t, err)
	dir.Register(client)

	t.Run("finds a registered client", func(t *testing.T) {
		found, err := dir.FindByClientID(ctx, "consumer-web")
		require.NoError(t, err)
		assert.Equal(t, "Consumer Web", found.Name)
		assert.Equal(t, "https://consumer.example.com/callback", found.PrimaryRedirectURI())
	})

	t.Run("unknown client returns not found", func(t *testing.T) {
		_, err := dir.FindByClientID(ctx, "nobody")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("registering again replaces the entry", func(t *testing.T) {
		updated, err := models.NewRegisteredClient(
			"consumer-web", "Consumer Web v2", "",
			[]string{"https://v2.example.com/cb"},
			time.Now(),
		)
		require.NoError(t, err)
		dir.Register(updated)

		found, err := dir.FindByClientID(ctx, "consumer-web")
		require.NoError(t, err)
		assert.Equal(t, "Consumer Web v2", found.Name)
	})
}

func TestNewRegisteredClientInvariants(t *testing.T) {
	now := time.Now()
	uris := []string{"https://consumer.example.com/callback"}

	t.Run("rejects empty client id", func(t *testing.T) {
		_, err := models.NewRegisteredClient("", "Name", "", uris, now)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := models.NewRegisteredClient("cid", "", "", uris, now)
		assert.Error(t, err)
	})

	t.Run("rejects missing redirect URIs", func(t *testing.T) {
		_, err := models.NewRegisteredClient("cid", "Name", "", nil, now)
		assert.Error(t, err)
	})

	t.Run("copies the redirect URI slice", func(t *testing.T) {
		input := []string{"https://a.example.com/cb"}
		client, err := models.NewRegisteredClient("cid", "Name", "", input, now)
		require.NoError(t, err)
		input[0] = "https://evil.example.com"
		assert.Equal(t, "https://a.example.com/cb", client.PrimaryRedirectURI())
	})
}
