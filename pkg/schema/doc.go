// Package schema declares the shape of data tables and decodes raw records against it.
//
// A Schema is an ordered set of fields. Each field has a lower_snake name, a Type
// (int32, int64, float32, bool, string, fixed-arity tuples, lists, nested objects)
// and a Visibility. Raw input uses PascalCase keys; RawName and FieldName convert
// between the two conventions.
//
// Basic usage:
//
//	mainProp := schema.MustNew("MainProp",
//	    schema.Always("rand_group_id", schema.Int32()),
//	    schema.Always("rand_num", schema.Int32()),
//	)
//
//	item := schema.MustNew("PhantomItemData",
//	    schema.Key("item_id", schema.Int32()),
//	    schema.StrictOnly("monster_name", schema.String()),
//	    schema.Always("main_prop", schema.Object(mainProp)),
//	    schema.Always("zoom", schema.Tuple(schema.Float32(), 3)),
//	)
//
//	rec, err := schema.Decode(item, raw, schema.Strict)
//
// Two modes exist. Strict rejects raw keys the schema does not declare and requires
// strict-only fields. Lenient drops unknown keys and never reads strict-only fields,
// so the resulting Record has no entry for them. Type checks are identical in both
// modes: numeric-looking text is never accepted for a numeric field.
//
// Schemas can also be declared in YAML through Spec:
//
//	name: SummonCfgData
//	fields:
//	  - {name: id, type: int32, key: true}
//	  - {name: name, type: string, strict_only: true}
//	  - {name: born_buff_id, type: "[int64]"}
package schema
