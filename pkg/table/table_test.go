package table_test

import (
	"errors"
	"testing"

	"github.com/aretw0/tabula/pkg/schema"
	"github.com/aretw0/tabula/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemSchema = schema.MustNew("Item",
	schema.Key("item_id", schema.Int32()),
	schema.Always("rarity", schema.Int32()),
)

func decodeItem(raw map[string]any) (schema.Record, error) {
	return schema.Decode(itemSchema, raw, schema.Strict)
}

func TestLoad_IndexesRecords(t *testing.T) {
	rows := []map[string]any{
		{"ItemId": 2, "Rarity": 5},
		{"ItemId": 1, "Rarity": 3},
	}

	tbl, err := table.Load("Item", rows, decodeItem, schema.KeyFunc(itemSchema))
	require.NoError(t, err)

	assert.Equal(t, "Item", tbl.Name())
	assert.Equal(t, 2, tbl.Len())

	rec, ok := tbl.Get(1)
	require.True(t, ok)
	assert.Equal(t, int32(3), rec.Int32("rarity"))

	rec, ok = tbl.Get(2)
	require.True(t, ok)
	assert.Equal(t, int32(5), rec.Int32("rarity"))

	_, ok = tbl.Get(3)
	assert.False(t, ok)

	pos, ok := tbl.Position(1)
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	all := tbl.All()
	require.Len(t, all, 2)
	assert.Equal(t, int32(2), all[0].Int32("item_id"), "All() keeps input order")
	assert.Equal(t, []int64{1, 2}, tbl.IDs())
}

func TestLoad_DuplicateIdentifier(t *testing.T) {
	rows := []map[string]any{
		{"ItemId": 1, "Rarity": 3},
		{"ItemId": 9, "Rarity": 3},
		{"ItemId": 1, "Rarity": 4},
	}

	tbl, err := table.Load("Item", rows, decodeItem, schema.KeyFunc(itemSchema))
	require.Error(t, err)
	assert.Nil(t, tbl, "no partial table on failure")
	assert.ErrorIs(t, err, table.ErrDuplicateIdentifier)

	var dup *table.DuplicateIdentifierError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Item", dup.Table)
	assert.Equal(t, int64(1), dup.ID)
	assert.Equal(t, 0, dup.First)
	assert.Equal(t, 2, dup.Second)
	assert.Equal(t, "table Item: duplicate identifier 1 at records 0 and 2", err.Error())
}

func TestLoad_FailFastOnDecode(t *testing.T) {
	calls := 0
	decode := func(raw map[string]any) (schema.Record, error) {
		calls++
		return decodeItem(raw)
	}
	rows := []map[string]any{
		{"ItemId": 1, "Rarity": 3},
		{"ItemId": 2},
		{"ItemId": 3, "Rarity": 3},
	}

	tbl, err := table.Load("Item", rows, decode, schema.KeyFunc(itemSchema))
	require.Error(t, err)
	assert.Nil(t, tbl)
	assert.Equal(t, 2, calls, "decoding stops at the first failure")

	var loadErr *table.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, 1, loadErr.Position)
	assert.ErrorIs(t, err, schema.ErrMissingField)
	assert.Equal(t, `table Item: record 1: field "Rarity": missing field`, err.Error())
}

func TestLoad_Empty(t *testing.T) {
	tbl, err := table.Load("Item", nil, decodeItem, schema.KeyFunc(itemSchema))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.All())
}

type item struct {
	ID     int32
	Rarity int32
}

func TestNewAndConvert(t *testing.T) {
	src, err := table.New("Item", []item{{ID: 4, Rarity: 1}, {ID: 8, Rarity: 2}}, func(i item) int64 { return int64(i.ID) })
	require.NoError(t, err)

	labels, err := table.Convert(src, func(i item) (string, error) {
		if i.Rarity > 1 {
			return "rare", nil
		}
		return "common", nil
	})
	require.NoError(t, err)

	got, ok := labels.Get(8)
	require.True(t, ok)
	assert.Equal(t, "rare", got)
	assert.Equal(t, []string{"common", "rare"}, labels.All())

	_, err = table.Convert(src, func(i item) (string, error) {
		if i.ID == 8 {
			return "", errors.New("boom")
		}
		return "", nil
	})
	var loadErr *table.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, 1, loadErr.Position)

	_, err = table.New("Item", []item{{ID: 4}, {ID: 4}}, func(i item) int64 { return int64(i.ID) })
	assert.ErrorIs(t, err, table.ErrDuplicateIdentifier)
}
