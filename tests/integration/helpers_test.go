// Package integration tests the waybill storage stack end to end
// through the public sqlite package: open, schema bring-up, order and
// company flows, the opened list, analytics, and export.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/waybill/pkg/sqlite"
	"github.com/mesh-intelligence/waybill/pkg/types"
)

// newTestStore opens a fresh ledger in a temp directory with the schema
// applied, closed automatically at the end of the test.
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(types.Config{DataDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// orderInput returns a valid order input with the given article and
// company.
func orderInput(article, company string) types.OrderInput {
	return types.OrderInput{
		ClientName:      "Mari Olsen",
		ArticleName:     article,
		Phone:           "555-0100",
		City:            "Bergen",
		Address:         "Strandgaten 1",
		DeliveryCompany: company,
		DeliveryDate:    "2026-09-15",
	}
}
