package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag Bind reads field names from.
const TagName = "table"

// Bind copies a decoded Record onto a tagged struct:
//
//	type MainProp struct {
//	    RandGroupID int32 `table:"rand_group_id"`
//	    RandNum     int32 `table:"rand_num"`
//	}
//
// Every tagged target field must have a slot in the record, so a complete-profile
// struct cannot be bound from a Lenient record. Record slots without a target field
// are ignored, which lets a minimal struct bind from a Strict record.
func Bind(rec Record, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    TagName,
		Result:     out,
		ErrorUnset: true,
		ZeroFields: true,
	})
	if err != nil {
		return fmt.Errorf("bind %T: %w", out, err)
	}
	if err := dec.Decode(map[string]any(rec)); err != nil {
		return fmt.Errorf("bind %T: %w", out, err)
	}
	return nil
}
