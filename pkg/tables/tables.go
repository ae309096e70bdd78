package tables

import (
	"fmt"

	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/schema"
	"github.com/aretw0/tabula/pkg/table"
	"github.com/aretw0/tabula/pkg/xref"
)

// Definitions returns every game table. The minimal structs are always available
// as typed views; the Full structs only when mode is schema.Strict.
func Definitions(mode schema.Mode) []catalog.Definition {
	item := []catalog.View{catalog.As[PhantomItemData]()}
	summon := []catalog.View{catalog.As[SummonCfgData]()}
	if mode == schema.Strict {
		item = append(item, catalog.As[PhantomItemDataFull]())
		summon = append(summon, catalog.As[SummonCfgDataFull]())
	}
	return []catalog.Definition{
		catalog.Define(PhantomItem, PhantomItemSchema, item...),
		catalog.Define(PhantomCustomizeItem, PhantomCustomizeItemSchema, catalog.As[PhantomCustomizeItemData]()),
		catalog.Define(SummonCfg, SummonCfgSchema, summon...),
	}
}

// References returns the identifier references between game tables.
// A skin item id of 0 means the customization has no skin.
func References() []xref.Reference {
	return []xref.Reference{
		{Source: PhantomCustomizeItem, Field: "phantom_id", Target: PhantomItem},
		{Source: PhantomCustomizeItem, Field: "skin_item_id", Target: PhantomItem, Sentinels: []int64{0}},
	}
}

// Schemas returns the declared schemas indexed by table name.
func Schemas() map[string]*schema.Schema {
	return map[string]*schema.Schema{
		PhantomItem:          PhantomItemSchema,
		PhantomCustomizeItem: PhantomCustomizeItemSchema,
		SummonCfg:            SummonCfgSchema,
	}
}

func PhantomItems(c *catalog.Catalog) (*table.Table[PhantomItemData], error) {
	return catalog.Lookup[PhantomItemData](c, PhantomItem)
}

func PhantomCustomizeItems(c *catalog.Catalog) (*table.Table[PhantomCustomizeItemData], error) {
	return catalog.Lookup[PhantomCustomizeItemData](c, PhantomCustomizeItem)
}

func SummonCfgs(c *catalog.Catalog) (*table.Table[SummonCfgData], error) {
	return catalog.Lookup[SummonCfgData](c, SummonCfg)
}

// PhantomItemsFull returns the complete-profile view; it fails on a minimal catalog.
func PhantomItemsFull(c *catalog.Catalog) (*table.Table[PhantomItemDataFull], error) {
	if c.Mode() != schema.Strict {
		return nil, fmt.Errorf("%s: complete profile requires a %s catalog, got %s", PhantomItem, schema.Strict, c.Mode())
	}
	return catalog.Lookup[PhantomItemDataFull](c, PhantomItem)
}

// SummonCfgsFull returns the complete-profile view; it fails on a minimal catalog.
func SummonCfgsFull(c *catalog.Catalog) (*table.Table[SummonCfgDataFull], error) {
	if c.Mode() != schema.Strict {
		return nil, fmt.Errorf("%s: complete profile requires a %s catalog, got %s", SummonCfg, schema.Strict, c.Mode())
	}
	return catalog.Lookup[SummonCfgDataFull](c, SummonCfg)
}
