package tables

import "github.com/aretw0/tabula/pkg/schema"

// PhantomCustomizeItem is the table name of phantom skins and customizations.
const PhantomCustomizeItem = "PhantomCustomizeItemData"

var PhantomCustomizeItemSchema = schema.MustNew(PhantomCustomizeItem,
	schema.Key("item_id", schema.Int32()),
	schema.Always("phantom_id", schema.Int32()),
	schema.Always("skin_item_id", schema.Int32()),
)

type PhantomCustomizeItemData struct {
	ItemID     int32 `table:"item_id" json:"item_id"`
	PhantomID  int32 `table:"phantom_id" json:"phantom_id"`
	SkinItemID int32 `table:"skin_item_id" json:"skin_item_id"`
}
