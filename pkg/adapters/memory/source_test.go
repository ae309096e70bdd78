package memory_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/tabula/pkg/adapters/memory"
	contract "github.com/aretw0/tabula/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed() map[string][]map[string]any {
	return map[string][]map[string]any{
		"SummonCfgData": {
			{"Id": 1, "BlueprintType": "Summon_Wolf", "BornBuffId": []any{100, 200}},
			{"Id": 2, "BlueprintType": "Summon_Bear", "BornBuffId": []any{}},
		},
		"PhantomCustomizeItemData": {
			{"ItemId": 10, "PhantomId": 1, "SkinItemId": 0},
		},
	}
}

func TestSource_Contract(t *testing.T) {
	contract.RunTableSourceContract(t, memory.NewSource(seed()), seed())
}

func TestNewSourceFromJSON_KeepsNumbers(t *testing.T) {
	src, err := memory.NewSourceFromJSON(map[string]string{
		"Buff": `[{"Id": 9007199254740993}]`,
	})
	require.NoError(t, err)

	rows, err := src.Rows(context.Background(), "Buff")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, json.Number("9007199254740993"), rows[0]["Id"])

	_, err = memory.NewSourceFromJSON(map[string]string{"Bad": `{`})
	assert.Error(t, err)
}

func TestSource_PublishNotifiesWatchers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := memory.NewSource(seed())
	ch, err := src.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, src.Publish(ctx, "SummonCfgData", nil))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change signal after Publish")
	}

	rows, err := src.Rows(ctx, "SummonCfgData")
	require.NoError(t, err)
	assert.Empty(t, rows)

	cancel()
	select {
	case _, open := <-ch:
		assert.False(t, open, "watch channel closes with its context")
	case <-time.After(time.Second):
		t.Fatal("watch channel was not closed")
	}
}
