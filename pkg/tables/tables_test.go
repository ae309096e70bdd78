package tables_test

import (
	"context"
	"testing"

	"github.com/aretw0/tabula/pkg/adapters/memory"
	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/schema"
	"github.com/aretw0/tabula/pkg/tables"
	"github.com/aretw0/tabula/pkg/xref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phantomItem(id, monster int) map[string]any {
	return map[string]any{
		"ItemId":                  id,
		"MonsterId":               monster,
		"MonsterName":             "Crownless",
		"ElementType":             []any{1, 2},
		"MainProp":                map[string]any{"RandGroupId": 5, "RandNum": 3},
		"LevelUpGroupId":          1,
		"SkillId":                 390070051,
		"CalabashBuffs":           []any{},
		"Rarity":                  4,
		"MeshId":                  700,
		"Zoom":                    []any{1.0, 1.0, 1.0},
		"Location":                []any{0, 0, -10.5},
		"Rotator":                 []any{0, 90, 0},
		"StandAnim":               "Idle",
		"TypeDescription":         "Calamity",
		"AttributesDescription":   "",
		"Icon":                    "/Game/Icon.png",
		"IconMiddle":              "/Game/IconMiddle.png",
		"IconSmall":               "/Game/IconSmall.png",
		"Mesh":                    "/Game/Mesh",
		"QualityId":               5,
		"MaxCapcity":              9999,
		"ItemAccess":              []any{6},
		"ObtainedShow":            1,
		"ObtainedShowDescription": "",
		"NumLimit":                0,
		"ShowInBag":               true,
		"SortIndex":               10,
		"SkillIcon":               "/Game/Skill.png",
		"Destructible":            false,
		"RedDotDisableRule":       0,
		"FetterGroup":             []any{8},
		"PhantomType":             1,
		"ParentMonsterId":         0,
	}
}

func gameSource() *memory.Source {
	return memory.NewSource(map[string][]map[string]any{
		tables.PhantomItem: {phantomItem(1, 10), phantomItem(2, 11)},
		tables.PhantomCustomizeItem: {
			{"ItemId": 50, "PhantomId": 1, "SkinItemId": 0},
			{"ItemId": 51, "PhantomId": 2, "SkinItemId": 77},
		},
		tables.SummonCfg: {
			{"Id": 1, "BlueprintType": "Summon_Wolf", "Name": "Wolf", "BornBuffId": []any{100, 200}},
			{"Id": 2, "BlueprintType": "Summon_Bear", "Name": "Bear", "BornBuffId": []any{}},
		},
	})
}

func load(t *testing.T, mode schema.Mode) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.NewLoader(
		catalog.WithMode(mode),
		catalog.WithDefinitions(tables.Definitions(mode)...),
	).Load(context.Background(), gameSource())
	require.NoError(t, err)
	return cat
}

func TestPhantomItems_Lookup(t *testing.T) {
	for _, mode := range []schema.Mode{schema.Strict, schema.Lenient} {
		t.Run(mode.String(), func(t *testing.T) {
			items, err := tables.PhantomItems(load(t, mode))
			require.NoError(t, err)

			first, ok := items.Get(1)
			require.True(t, ok)
			assert.Equal(t, int32(10), first.MonsterID)
			assert.Equal(t, tables.MainProp{RandGroupID: 5, RandNum: 3}, first.MainProp)
			assert.Equal(t, [3]float32{0, 0, -10.5}, first.Location)
			assert.Empty(t, first.CalabashBuffs)
			assert.True(t, first.ShowInBag)

			second, ok := items.Get(2)
			require.True(t, ok)
			assert.Equal(t, int32(11), second.MonsterID)

			_, ok = items.Get(3)
			assert.False(t, ok)
		})
	}
}

func TestPhantomItemsFull(t *testing.T) {
	full, err := tables.PhantomItemsFull(load(t, schema.Strict))
	require.NoError(t, err)
	item, ok := full.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Crownless", item.MonsterName)
	assert.Equal(t, "/Game/Skill.png", item.SkillIcon)
	assert.Equal(t, int32(4), item.Rarity)

	_, err = tables.PhantomItemsFull(load(t, schema.Lenient))
	assert.ErrorContains(t, err, "complete profile")
}

func TestSummonCfgs_BornBuffs(t *testing.T) {
	summons, err := tables.SummonCfgs(load(t, schema.Lenient))
	require.NoError(t, err)

	wolf, ok := summons.Get(1)
	require.True(t, ok)
	assert.Equal(t, []int64{100, 200}, wolf.BornBuffID)

	bear, ok := summons.Get(2)
	require.True(t, ok)
	assert.Len(t, bear.BornBuffID, 0)

	rec, ok := load(t, schema.Lenient).Get(tables.SummonCfg, 2)
	require.True(t, ok)
	assert.Equal(t, []int64{}, rec["born_buff_id"], "an empty list is present, not missing")

	full, err := tables.SummonCfgsFull(load(t, schema.Strict))
	require.NoError(t, err)
	wolfFull, _ := full.Get(1)
	assert.Equal(t, "Wolf", wolfFull.Name)
}

func TestDefinitions_StrictRejectsUnknownColumn(t *testing.T) {
	row := phantomItem(1, 10)
	row["Unexpected"] = 1
	src := memory.NewSource(map[string][]map[string]any{
		tables.PhantomItem:          {row},
		tables.PhantomCustomizeItem: {},
		tables.SummonCfg:            {},
	})

	_, err := catalog.NewLoader(catalog.WithDefinitions(tables.Definitions(schema.Strict)...)).Load(context.Background(), src)
	assert.ErrorIs(t, err, schema.ErrUnknownField)

	cat, err := catalog.NewLoader(
		catalog.WithMode(schema.Lenient),
		catalog.WithDefinitions(tables.Definitions(schema.Lenient)...),
	).Load(context.Background(), src)
	require.NoError(t, err)
	rec, ok := cat.Get(tables.PhantomItem, 1)
	require.True(t, ok)
	assert.False(t, rec.Has("icon"))
}

func TestReferences(t *testing.T) {
	report, err := xref.Validate(load(t, schema.Strict), tables.References())
	require.NoError(t, err)
	assert.Equal(t, []xref.Violation{
		{Source: tables.PhantomCustomizeItem, SourceID: 51, Field: "skin_item_id", Target: tables.PhantomItem, Missing: 77},
	}, report.Violations)
}

func TestSchemas(t *testing.T) {
	schemas := tables.Schemas()
	assert.Len(t, schemas, 3)
	for name, s := range schemas {
		assert.Equal(t, name, s.Name())
		_, ok := s.Key()
		assert.True(t, ok, "%s declares a key", name)
	}
	_, ok := tables.PhantomItemSchema.Lookup("main_prop.rand_group_id")
	assert.True(t, ok)
}
