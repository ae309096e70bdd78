package schema

import "testing"

func TestRawName(t *testing.T) {
	tests := []struct {
		field string
		raw   string
	}{
		{"item_id", "ItemId"},
		{"born_buff_id", "BornBuffId"},
		{"max_capcity", "MaxCapcity"},
		{"zoom", "Zoom"},
		{"icon2", "Icon2"},
		{"level_up_group_id", "LevelUpGroupId"},
	}

	for _, tt := range tests {
		if got := RawName(tt.field); got != tt.raw {
			t.Errorf("RawName(%q) = %q, want %q", tt.field, got, tt.raw)
		}
		if got := FieldName(tt.raw); got != tt.field {
			t.Errorf("FieldName(%q) = %q, want %q", tt.raw, got, tt.field)
		}
	}
}

func TestCheckName(t *testing.T) {
	valid := []string{"id", "item_id", "icon2", "a_b_c"}
	for _, name := range valid {
		if err := checkName(name); err != nil {
			t.Errorf("checkName(%q) error = %v, want nil", name, err)
		}
		if FieldName(RawName(name)) != name {
			t.Errorf("%q does not survive a round trip", name)
		}
	}

	invalid := []string{"", "ItemId", "item__id", "_item", "item_", "icon_2", "item-id", "ítem"}
	for _, name := range invalid {
		if err := checkName(name); err == nil {
			t.Errorf("checkName(%q) should fail", name)
		}
	}
}
