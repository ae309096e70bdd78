package observability_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/tabula/pkg/adapters/memory"
	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/observability"
	"github.com/aretw0/tabula/pkg/schema"
	"github.com/aretw0/tabula/pkg/xref"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	buff := schema.MustNew("Buff", schema.Key("id", schema.Int64()))
	src := memory.NewSource(map[string][]map[string]any{
		"Buff": {{"Id": 1}, {"Id": 2}, {"Id": 3}},
		"Bad":  {{"Id": 1}, {"Id": 1}},
	})

	_, err := catalog.NewLoader(
		catalog.WithHooks(m.Hooks()),
		catalog.WithDefinitions(catalog.Define("Buff", buff)),
	).Load(context.Background(), src)
	require.NoError(t, err)

	_, err = catalog.NewLoader(
		catalog.WithHooks(m.Hooks()),
		catalog.WithDefinitions(catalog.Define("Bad", buff)),
	).Load(context.Background(), src)
	require.Error(t, err)

	expected := `
# HELP tabula_table_records Number of records in the last successful load of a table
# TYPE tabula_table_records gauge
tabula_table_records{table="Buff"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "tabula_table_records"))
	assertCount(t, reg, "tabula_tables_loaded_total", 1)
	assertCount(t, reg, "tabula_table_load_failures_total", 1)
	assertCount(t, reg, "tabula_catalog_load_duration_seconds", 1)
}

func TestMetrics_ReferencesAndReloads(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.ObserveReferences(&xref.Report{Violations: []xref.Violation{
		{Source: "Item", Field: "phantom_id", Missing: 1},
		{Source: "Item", Field: "phantom_id", Missing: 2},
		{Source: "Item", Field: "skin_item_id", Missing: 3},
	}})
	assertCount(t, reg, "tabula_dangling_references", 2)

	m.ObserveReferences(&xref.Report{})
	assertCount(t, reg, "tabula_dangling_references", 0)

	m.ObserveReload(nil)
	m.ObserveReload(errors.New("boom"))
	m.ObserveReload(errors.New("boom"))
	assertCount(t, reg, "tabula_reloads_total", 2)
}

func assertCount(t *testing.T, reg *prometheus.Registry, name string, want int) {
	t.Helper()
	got, err := testutil.GatherAndCount(reg, name)
	require.NoError(t, err)
	assert.Equal(t, want, got, name)
}
