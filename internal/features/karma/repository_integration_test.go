package karma

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/karma-bot/internal/db/postgres/pgtest"
)

func TestMain(m *testing.M) {
	os.Exit(pgtest.Main(m))
}

func TestRepository_GetMissing(t *testing.T) {
	repo := NewRepository(pgtest.Setup(t, "karma"))

	_, found, err := repo.Get(context.Background(), chatID, alice)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepository_AdjustCreatesRow(t *testing.T) {
	repo := NewRepository(pgtest.Setup(t, "karma"))
	ctx := context.Background()

	require.NoError(t, repo.Adjust(ctx, chatID, alice, -1))

	rec, found, err := repo.Get(ctx, chatID, alice)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, -1, rec.Karma)
	assert.False(t, rec.Ignored)
}

func TestRepository_ConcurrentAdjust(t *testing.T) {
	repo := NewRepository(pgtest.Setup(t, "karma"))
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Adjust(ctx, chatID, alice, 1))
		}()
	}
	wg.Wait()

	rec, found, err := repo.Get(ctx, chatID, alice)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, n, rec.Karma)
}

func TestRepository_ToggleIgnored(t *testing.T) {
	repo := NewRepository(pgtest.Setup(t, "karma"))
	ctx := context.Background()

	require.NoError(t, repo.Adjust(ctx, chatID, bob, 1))

	ignored, err := repo.ToggleIgnored(ctx, chatID, bob)
	require.NoError(t, err)
	assert.True(t, ignored)

	ignored, err = repo.ToggleIgnored(ctx, chatID, bob)
	require.NoError(t, err)
	assert.False(t, ignored)

	rec, _, err := repo.Get(ctx, chatID, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Karma)
}

func TestRepository_ToggleIgnoredCreatesRow(t *testing.T) {
	repo := NewRepository(pgtest.Setup(t, "karma"))
	ctx := context.Background()

	ignored, err := repo.ToggleIgnored(ctx, chatID, charlie)
	require.NoError(t, err)
	assert.True(t, ignored)

	rec, found, err := repo.Get(ctx, chatID, charlie)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0, rec.Karma)
}

func TestRepository_Leaderboard(t *testing.T) {
	repo := NewRepository(pgtest.Setup(t, "karma"))
	ctx := context.Background()

	require.NoError(t, repo.Adjust(ctx, chatID, alice, 1))
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Adjust(ctx, chatID, bob, 1))
	}
	require.NoError(t, repo.Adjust(ctx, chatID, charlie, -1))
	require.NoError(t, repo.Adjust(ctx, -2002, alice, 1))

	records, err := repo.Leaderboard(ctx, chatID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, bob, records[0].UserID)
	assert.Equal(t, alice, records[1].UserID)
	assert.Equal(t, charlie, records[2].UserID)
	assert.Equal(t, -1, records[2].Karma)
}
