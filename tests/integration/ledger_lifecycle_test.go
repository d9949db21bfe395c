// Integration tests for the open → write → reopen lifecycle.
package integration

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/waybill/pkg/sqlite"
	"github.com/mesh-intelligence/waybill/pkg/types"
)

func TestLedgerSurvivesReopen(t *testing.T) {
	cfg := types.Config{DataDir: t.TempDir()}

	store, err := sqlite.Open(cfg, zap.NewNop())
	require.NoError(t, err)

	id, err := store.CreateOrder(orderInput("Oak Table", "Acme"))
	require.NoError(t, err)
	require.NoError(t, store.OpenOrder(id))
	require.NoError(t, store.Close())

	// Second open runs schema bring-up again against the same file.
	store, err = sqlite.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	order, err := store.GetOrder(id)
	require.NoError(t, err)
	assert.Equal(t, "Oak Table", order.ArticleName)
	assert.Equal(t, "Acme", order.DeliveryCompany)

	entries, err := store.ListOpenedOrders()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].OrderID)
	assert.EqualValues(t, 1, entries[0].Position)

	companies, err := store.ListCompanies()
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme", companies[0].Name)
}

func TestOpenFailsOnUnusableDataDir(t *testing.T) {
	// A regular file where a directory component should be makes the
	// data dir impossible to create.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := types.Config{DataDir: filepath.Join(blocker, "data")}
	_, err := sqlite.Open(cfg, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrStorageUnavailable),
		"expected ErrStorageUnavailable, got %v", err)
}

func TestOpenRejectsUnknownLogLevel(t *testing.T) {
	cfg := types.Config{DataDir: t.TempDir(), LogLevel: "verbose"}

	_, err := sqlite.Open(cfg, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrLogLevelUnknown),
		"expected ErrLogLevelUnknown, got %v", err)
}

func TestOpenCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := sqlite.Open(types.Config{DataDir: dir}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(filepath.Join(dir, sqlite.DBFileName))
	assert.NoError(t, err, "ledger file should sit inside the data dir")
}
