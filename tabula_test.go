package tabula_test

import (
	"context"
	"testing"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/pkg/adapters/memory"
	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/schema"
	"github.com/aretw0/tabula/pkg/tables"
	"github.com/aretw0/tabula/pkg/xref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gameData = `[
	{"Id": 1, "BlueprintType": "Summon_Wolf", "Name": "Wolf", "BornBuffId": [100, 200]},
	{"Id": 2, "BlueprintType": "Summon_Bear", "Name": "Bear", "BornBuffId": []}
]`

func gameSource(t *testing.T, customize string) *memory.Source {
	t.Helper()
	src, err := memory.NewSourceFromJSON(map[string]string{
		tables.SummonCfg:            gameData,
		tables.PhantomItem:          `[]`,
		tables.PhantomCustomizeItem: customize,
	})
	require.NoError(t, err)
	return src
}

func TestLoad_Defaults(t *testing.T) {
	res, err := tabula.Load(context.Background(), gameSource(t, `[]`))
	require.NoError(t, err)

	assert.Equal(t, schema.Strict, res.Catalog.Mode())
	assert.Equal(t, []string{tables.PhantomCustomizeItem, tables.PhantomItem, tables.SummonCfg}, res.Catalog.Names())
	assert.True(t, res.References.OK())

	summons, err := tables.SummonCfgsFull(res.Catalog)
	require.NoError(t, err)
	wolf, ok := summons.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Wolf", wolf.Name)
	assert.Equal(t, []int64{100, 200}, wolf.BornBuffID)
}

func TestLoad_DanglingReferencesAreAdvisory(t *testing.T) {
	src := gameSource(t, `[{"ItemId": 9, "PhantomId": 404, "SkinItemId": 0}]`)

	res, err := tabula.Load(context.Background(), src, tabula.WithMode(schema.Lenient))
	require.NoError(t, err)
	require.Len(t, res.References.Violations, 1)
	assert.Equal(t, xref.Violation{
		Source: tables.PhantomCustomizeItem, SourceID: 9, Field: "phantom_id", Target: tables.PhantomItem, Missing: 404,
	}, res.References.Violations[0])

	_, ok := res.Catalog.Get(tables.PhantomCustomizeItem, 9)
	assert.True(t, ok, "catalog stays queryable")

	_, err = tabula.Load(context.Background(), src, tabula.WithStrictReferences(true))
	assert.ErrorIs(t, err, xref.ErrDanglingReference)
}

func TestLoad_DecodeFailureBlocks(t *testing.T) {
	src := gameSource(t, `[{"ItemId": 9, "PhantomId": "404", "SkinItemId": 0}]`)

	res, err := tabula.Load(context.Background(), src, tabula.WithConcurrency(1))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, schema.ErrTypeMismatch)
	assert.Contains(t, err.Error(), `table PhantomCustomizeItemData: record 0: field "PhantomId"`)
}

func TestLoad_CustomDefinitions(t *testing.T) {
	src := memory.NewSource(map[string][]map[string]any{
		"Buff": {{"Id": 1}, {"Id": 2}},
	})
	buff := schema.MustNew("Buff", schema.Key("id", schema.Int64()))

	var loaded []string
	res, err := tabula.Load(context.Background(), src,
		tabula.WithDefinitions(catalog.Define("Buff", buff)),
		tabula.WithHooks(catalog.Hooks{
			OnTableLoaded: func(_ context.Context, e *catalog.TableEvent) { loaded = append(loaded, e.Table) },
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buff"}, res.Catalog.Names())
	assert.Equal(t, []string{"Buff"}, loaded)
	assert.Zero(t, res.References.Checked, "built-in references do not apply to custom definitions")

	_, err = tabula.Load(context.Background(), src,
		tabula.WithDefinitions(catalog.Define("Buff", buff)),
		tabula.WithReferences(xref.Reference{Source: "Buff", Field: "nope", Target: "Buff"}),
	)
	assert.ErrorContains(t, err, "validate references")
}
