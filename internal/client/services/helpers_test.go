package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/smartvoyage/internal/client/client"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupStore(t *testing.T) *client.Database {
	t.Helper()
	d, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "voyage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func nopLog() logging.Logger { return logging.Nop() }
