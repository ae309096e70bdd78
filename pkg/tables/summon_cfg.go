package tables

import "github.com/aretw0/tabula/pkg/schema"

// SummonCfg is the table name of summon configurations.
const SummonCfg = "SummonCfgData"

// SummonCfgSchema declares SummonCfgData. Born buffs use 64-bit buff identifiers.
var SummonCfgSchema = schema.MustNew(SummonCfg,
	schema.Key("id", schema.Int32()),
	schema.Always("blueprint_type", schema.String()),
	schema.StrictOnly("name", schema.String()),
	schema.Always("born_buff_id", schema.Slice(schema.Int64())),
)

type SummonCfgData struct {
	ID            int32   `table:"id" json:"id"`
	BlueprintType string  `table:"blueprint_type" json:"blueprint_type"`
	BornBuffID    []int64 `table:"born_buff_id" json:"born_buff_id"`
}

type SummonCfgDataFull struct {
	SummonCfgData `table:",squash"`
	Name          string `table:"name" json:"name"`
}
