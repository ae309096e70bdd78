// Package tests holds reusable suites that adapters run against the ports contracts.
package tests

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/aretw0/tabula/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTableSourceContract runs a suite of tests to verify that a TableSource implementation
// adheres to the defined interface contract. want holds the rows the source was seeded with.
//
// Values are compared through their JSON form, since adapters legitimately differ in
// number representation (json.Number, int, float64).
func RunTableSourceContract(t *testing.T, src ports.TableSource, want map[string][]map[string]any) {
	t.Helper()
	ctx := context.Background()

	t.Run("Tables", func(t *testing.T) {
		names, err := src.Tables(ctx)
		require.NoError(t, err)

		expected := make([]string, 0, len(want))
		for name := range want {
			expected = append(expected, name)
		}
		sort.Strings(expected)
		assert.Equal(t, expected, names, "Tables should list every seeded table, sorted")
	})

	t.Run("Rows keep input order", func(t *testing.T) {
		for name, rows := range want {
			got, err := src.Rows(ctx, name)
			require.NoError(t, err, "Rows(%s)", name)
			assert.JSONEq(t, toJSON(t, rows), toJSON(t, got), "rows of %s", name)
		}
	})

	t.Run("Rows of missing table", func(t *testing.T) {
		_, err := src.Rows(ctx, "NoSuchTable")
		require.Error(t, err)
		assert.ErrorIs(t, err, ports.ErrTableNotFound)
	})
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
