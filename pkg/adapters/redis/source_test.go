package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tabula/pkg/adapters/redis"
	contract "github.com/aretw0/tabula/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(t *testing.T, opts ...redis.Option) (*redis.Source, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	src := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = src.Close() })
	return src, mr
}

func TestRedisSource_Contract(t *testing.T) {
	src, _ := newSource(t)
	ctx := context.Background()

	want := map[string][]map[string]any{
		"SummonCfgData": {
			{"Id": 1, "BlueprintType": "Summon_Wolf", "BornBuffId": []any{100, 200}},
		},
		"PhantomCustomizeItemData": {
			{"ItemId": 10, "PhantomId": 1, "SkinItemId": 0},
			{"ItemId": 11, "PhantomId": 2, "SkinItemId": 10},
		},
	}
	for name, rows := range want {
		require.NoError(t, src.Publish(ctx, name, rows))
	}

	contract.RunTableSourceContract(t, src, want)
}

func TestRedisSource_KeysAndNumbers(t *testing.T) {
	src, mr := newSource(t, redis.WithPrefix("game:"))
	ctx := context.Background()

	require.NoError(t, src.Publish(ctx, "Buff", []map[string]any{{"Id": int64(9007199254740993)}}))
	assert.True(t, mr.Exists("game:Buff"))

	members, err := mr.SMembers("game:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"Buff"}, members)

	rows, err := src.Rows(ctx, "Buff")
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), rows[0]["Id"])

	require.NoError(t, src.Publish(ctx, "Empty", nil))
	rows, err = src.Rows(ctx, "Empty")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRedisSource_CorruptPayload(t *testing.T) {
	src, mr := newSource(t)
	require.NoError(t, mr.Set("tabula:table:Bad", "{not json"))

	_, err := src.Rows(context.Background(), "Bad")
	assert.ErrorContains(t, err, "failed to unmarshal table Bad")
}

func TestRedisSource_Watch(t *testing.T) {
	src, _ := newSource(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := src.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, src.Publish(ctx, "SummonCfgData", nil))

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal after Publish")
	}
}
