package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leonid6372/stock-ledger/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_MemoryWithSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"accounts": [{"id": 7, "user_id": 1, "cash_available": "1500.50", "telegram_id": 42}],
		"stocks": [{"symbol": "AAPL", "last_price": "190.10"}, {"symbol": "NEW"}]
	}`), 0o600))

	ctx := context.Background()
	store, closeStore, err := OpenStore(ctx, &config.Config{Storage: config.StorageMemory, SeedFile: path}, false)
	require.NoError(t, err)
	defer closeStore()

	account, err := store.GetClientAccount(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "1500.5", account.CashAvailable.String())

	stocks, err := store.ListStocks(ctx)
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	assert.True(t, stocks[0].LastPrice.Valid)
	assert.False(t, stocks[1].LastPrice.Valid)
}

func TestOpenStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := OpenStore(ctx, &config.Config{Storage: "sqlite"}, false)
	assert.Error(t, err)

	_, _, err = OpenStore(ctx, &config.Config{Storage: config.StorageMemory, SeedFile: "missing.json"}, false)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	_, _, err = OpenStore(ctx, &config.Config{Storage: config.StorageMemory, SeedFile: bad}, false)
	assert.Error(t, err)
}
