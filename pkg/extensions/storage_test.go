package extensions_test

import (
	"context"
	"testing"

	tdb "github.com/agentdeck/agentdeck/test/database"

	"github.com/agentdeck/agentdeck/pkg/extensions"
	"github.com/agentdeck/agentdeck/pkg/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_SetGetDeleteRoundTrip(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()

	_, err := client.Extension.Create().
		SetID(uuid.New().String()).
		SetName("demo").
		SetVersion("1.0.0").
		SetManifest(map[string]any{}).
		SetInstallPath("/tmp/demo@1.0.0").
		Save(ctx)
	require.NoError(t, err)

	store := extensions.NewStorage(client.Client)

	require.NoError(t, store.Set(ctx, "demo", "theme", "dark"))

	val, err := store.Get(ctx, "demo", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", val)

	require.NoError(t, store.Set(ctx, "demo", "theme", "light"))
	val, err = store.Get(ctx, "demo", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", val)

	keys, err := store.List(ctx, "demo", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"theme"}, keys)

	deleted, err := store.Delete(ctx, "demo", "theme")
	require.NoError(t, err)
	assert.True(t, deleted)

	val, err = store.Get(ctx, "demo", "theme")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStorage_MapValueRoundTripsUnchanged(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()

	_, err := client.Extension.Create().
		SetID(uuid.New().String()).
		SetName("demo-map").
		SetVersion("1.0.0").
		SetManifest(map[string]any{}).
		SetInstallPath("/tmp/demo-map@1.0.0").
		Save(ctx)
	require.NoError(t, err)

	store := extensions.NewStorage(client.Client)

	stored := map[string]any{"value": float64(42)}
	require.NoError(t, store.Set(ctx, "demo-map", "settings", stored))

	val, err := store.Get(ctx, "demo-map", "settings")
	require.NoError(t, err)
	assert.Equal(t, stored, val)
}

func TestStorage_UnknownExtension(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	store := extensions.NewStorage(client.Client)

	_, err := store.Get(ctx, "missing", "key")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
