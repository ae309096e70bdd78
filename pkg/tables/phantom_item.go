package tables

import "github.com/aretw0/tabula/pkg/schema"

// PhantomItem is the table name of phantom (echo) items.
const PhantomItem = "PhantomItemData"

// MainPropSchema is the rolled main property of a phantom item.
var MainPropSchema = schema.MustNew("MainProp",
	schema.Always("rand_group_id", schema.Int32()),
	schema.Always("rand_num", schema.Int32()),
)

var vec3 = schema.Tuple(schema.Float32(), 3)

// PhantomItemSchema declares PhantomItemData.
var PhantomItemSchema = schema.MustNew(PhantomItem,
	schema.Key("item_id", schema.Int32()),
	schema.Always("monster_id", schema.Int32()),
	schema.StrictOnly("monster_name", schema.String()),
	schema.Always("element_type", schema.Slice(schema.Int32())),
	schema.Always("main_prop", schema.Object(MainPropSchema)),
	schema.Always("level_up_group_id", schema.Int32()),
	schema.Always("skill_id", schema.Int32()),
	schema.Always("calabash_buffs", schema.Slice(schema.Int32())),
	schema.Always("rarity", schema.Int32()),
	schema.Always("mesh_id", schema.Int32()),
	schema.Always("zoom", vec3),
	schema.Always("location", vec3),
	schema.Always("rotator", vec3),
	schema.StrictOnly("stand_anim", schema.String()),
	schema.StrictOnly("type_description", schema.String()),
	schema.StrictOnly("attributes_description", schema.String()),
	schema.StrictOnly("icon", schema.String()),
	schema.StrictOnly("icon_middle", schema.String()),
	schema.StrictOnly("icon_small", schema.String()),
	schema.StrictOnly("mesh", schema.String()),
	schema.Always("quality_id", schema.Int32()),
	schema.Always("max_capcity", schema.Int32()),
	schema.Always("item_access", schema.Slice(schema.Int32())),
	schema.Always("obtained_show", schema.Int32()),
	schema.StrictOnly("obtained_show_description", schema.String()),
	schema.Always("num_limit", schema.Int32()),
	schema.Always("show_in_bag", schema.Bool()),
	schema.Always("sort_index", schema.Int32()),
	schema.StrictOnly("skill_icon", schema.String()),
	schema.Always("destructible", schema.Bool()),
	schema.Always("red_dot_disable_rule", schema.Int32()),
	schema.Always("fetter_group", schema.Slice(schema.Int32())),
	schema.Always("phantom_type", schema.Int32()),
	schema.Always("parent_monster_id", schema.Int32()),
)

type MainProp struct {
	RandGroupID int32 `table:"rand_group_id" json:"rand_group_id"`
	RandNum     int32 `table:"rand_num" json:"rand_num"`
}

// PhantomItemData holds the fields every profile carries.
type PhantomItemData struct {
	ItemID            int32      `table:"item_id" json:"item_id"`
	MonsterID         int32      `table:"monster_id" json:"monster_id"`
	ElementType       []int32    `table:"element_type" json:"element_type"`
	MainProp          MainProp   `table:"main_prop" json:"main_prop"`
	LevelUpGroupID    int32      `table:"level_up_group_id" json:"level_up_group_id"`
	SkillID           int32      `table:"skill_id" json:"skill_id"`
	CalabashBuffs     []int32    `table:"calabash_buffs" json:"calabash_buffs"`
	Rarity            int32      `table:"rarity" json:"rarity"`
	MeshID            int32      `table:"mesh_id" json:"mesh_id"`
	Zoom              [3]float32 `table:"zoom" json:"zoom"`
	Location          [3]float32 `table:"location" json:"location"`
	Rotator           [3]float32 `table:"rotator" json:"rotator"`
	QualityID         int32      `table:"quality_id" json:"quality_id"`
	MaxCapcity        int32      `table:"max_capcity" json:"max_capcity"`
	ItemAccess        []int32    `table:"item_access" json:"item_access"`
	ObtainedShow      int32      `table:"obtained_show" json:"obtained_show"`
	NumLimit          int32      `table:"num_limit" json:"num_limit"`
	ShowInBag         bool       `table:"show_in_bag" json:"show_in_bag"`
	SortIndex         int32      `table:"sort_index" json:"sort_index"`
	Destructible      bool       `table:"destructible" json:"destructible"`
	RedDotDisableRule int32      `table:"red_dot_disable_rule" json:"red_dot_disable_rule"`
	FetterGroup       []int32    `table:"fetter_group" json:"fetter_group"`
	PhantomType       int32      `table:"phantom_type" json:"phantom_type"`
	ParentMonsterID   int32      `table:"parent_monster_id" json:"parent_monster_id"`
}

// PhantomItemDataFull adds the strict-only fields.
type PhantomItemDataFull struct {
	PhantomItemData         `table:",squash"`
	MonsterName             string `table:"monster_name" json:"monster_name"`
	StandAnim               string `table:"stand_anim" json:"stand_anim"`
	TypeDescription         string `table:"type_description" json:"type_description"`
	AttributesDescription   string `table:"attributes_description" json:"attributes_description"`
	Icon                    string `table:"icon" json:"icon"`
	IconMiddle              string `table:"icon_middle" json:"icon_middle"`
	IconSmall               string `table:"icon_small" json:"icon_small"`
	Mesh                    string `table:"mesh" json:"mesh"`
	ObtainedShowDescription string `table:"obtained_show_description" json:"obtained_show_description"`
	SkillIcon               string `table:"skill_icon" json:"skill_icon"`
}
