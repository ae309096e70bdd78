package schema

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestInt32Type(t *testing.T) {
	typ := Int32()

	if typ.Name() != "int32" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "int32")
	}

	tests := []struct {
		value   any
		want    int32
		wantErr bool
	}{
		{42, 42, false},
		{int8(-3), -3, false},
		{int64(7), 7, false},
		{float64(42), 0, true}, // integer kinds reject floats, whole or not
		{float32(3), 0, true},
		{json.Number("12"), 12, false},
		{json.Number("12.0"), 0, true},
		{json.Number("1e2"), 0, true},
		{float64(42.5), 0, true},
		{int64(math.MaxInt32) + 1, 0, true},
		{"42", 0, true}, // numeric text is never coerced
		{json.Number("1e400"), 0, true},
		{true, 0, true},
		{nil, 0, true},
	}

	for _, tt := range tests {
		got, err := typ.Decode(tt.value, Strict)
		if (err != nil) != tt.wantErr {
			t.Errorf("Decode(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("Decode(%v) = %v (%T), want %v", tt.value, got, got, tt.want)
		}
		if err != nil && !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("Decode(%v) error should match ErrTypeMismatch, got %v", tt.value, err)
		}
	}
}

func TestInt64Type(t *testing.T) {
	typ := Int64()

	tests := []struct {
		value   any
		want    int64
		wantErr bool
	}{
		{int64(math.MaxInt32) + 1, int64(math.MaxInt32) + 1, false},
		{json.Number("9007199254740993"), 9007199254740993, false},
		{uint64(math.MaxUint64), 0, true},
		{"1", 0, true},
	}

	for _, tt := range tests {
		got, err := typ.Decode(tt.value, Lenient)
		if (err != nil) != tt.wantErr {
			t.Errorf("Decode(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("Decode(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestFloat32Type(t *testing.T) {
	typ := Float32()

	tests := []struct {
		value   any
		want    float32
		wantErr bool
	}{
		{3.5, 3.5, false},
		{float32(1.25), 1.25, false},
		{1, 1, false},
		{json.Number("0.5"), 0.5, false},
		{"3.14", 0, true},
		{true, 0, true},
		{nil, 0, true},
	}

	for _, tt := range tests {
		got, err := typ.Decode(tt.value, Strict)
		if (err != nil) != tt.wantErr {
			t.Errorf("Decode(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("Decode(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestBoolAndStringTypes(t *testing.T) {
	if _, err := Bool().Decode(1, Strict); err == nil {
		t.Error("Bool().Decode(1) should fail")
	}
	if _, err := Bool().Decode("true", Lenient); err == nil {
		t.Error(`Bool().Decode("true") should fail`)
	}
	if v, err := Bool().Decode(true, Strict); err != nil || v != true {
		t.Errorf("Bool().Decode(true) = %v, %v", v, err)
	}
	if _, err := String().Decode(42, Strict); err == nil {
		t.Error("String().Decode(42) should fail")
	}
	if v, err := String().Decode("", Strict); err != nil || v != "" {
		t.Errorf(`String().Decode("") = %v, %v`, v, err)
	}
}

func TestTupleType(t *testing.T) {
	typ := Tuple(Float32(), 3)

	if typ.Name() != "[float32;3]" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "[float32;3]")
	}

	got, err := typ.Decode([]any{1.0, 2.5, 3}, Strict)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if want := []float32{1, 2.5, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}

	for _, bad := range []any{
		[]any{1.0, 2.0},
		[]any{1.0, 2.0, 3.0, 4.0},
		[]any{},
		"1,2,3",
	} {
		if _, err := typ.Decode(bad, Lenient); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("Decode(%v) error = %v, want ErrTypeMismatch", bad, err)
		}
	}
}

func TestSliceType(t *testing.T) {
	typ := Slice(Int64())

	if typ.Name() != "[int64]" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "[int64]")
	}

	got, err := typ.Decode([]any{100, int64(200)}, Strict)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if want := []int64{100, 200}; !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %#v, want %#v", got, want)
	}

	empty, err := typ.Decode([]any{}, Strict)
	if err != nil {
		t.Fatalf("Decode([]) error = %v", err)
	}
	if s, ok := empty.([]int64); !ok || s == nil || len(s) != 0 {
		t.Errorf("Decode([]) = %#v, want empty non-nil []int64", empty)
	}

	// Go slices from in-memory sources are accepted too.
	if _, err := typ.Decode([]int{1, 2}, Strict); err != nil {
		t.Errorf("Decode([]int) error = %v", err)
	}
}

func TestSliceType_MixedElementsFail(t *testing.T) {
	_, err := Slice(Int32()).Decode([]any{1, 2, "3", 4}, Strict)
	if err == nil {
		t.Fatal("Decode() should fail for mixed-kind list")
	}

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("error should be *FieldError, got %T", err)
	}
	if fe.Field() != "[2]" {
		t.Errorf("Field() = %q, want %q", fe.Field(), "[2]")
	}
}

func TestObjectType_PathPreserved(t *testing.T) {
	inner := MustNew("MainProp",
		Always("rand_group_id", Int32()),
		Always("rand_num", Int32()),
	)
	outer := MustNew("Outer",
		Always("main_prop", Object(inner)),
		Always("props", Slice(Object(inner))),
	)

	_, err := Decode(outer, map[string]any{
		"MainProp": map[string]any{"RandNum": 3},
		"Props":    []any{},
	}, Strict)
	if err == nil {
		t.Fatal("Decode() should fail")
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("error should be *FieldError, got %T", err)
	}
	if fe.Field() != "MainProp.RandGroupId" || fe.Code != CodeMissingField {
		t.Errorf("got %s %q, want missing_field MainProp.RandGroupId", fe.Code, fe.Field())
	}

	_, err = Decode(outer, map[string]any{
		"MainProp": map[string]any{"RandGroupId": 1, "RandNum": 3},
		"Props": []any{
			map[string]any{"RandGroupId": 1, "RandNum": 3},
			map[string]any{"RandGroupId": "x", "RandNum": 3},
		},
	}, Strict)
	if !errors.As(err, &fe) {
		t.Fatalf("error should be *FieldError, got %T", err)
	}
	if fe.Field() != "Props[1].RandGroupId" {
		t.Errorf("Field() = %q, want %q", fe.Field(), "Props[1].RandGroupId")
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"int32", "int32", false},
		{"int64", "int64", false},
		{"float32", "float32", false},
		{"bool", "bool", false},
		{"string", "string", false},
		{"[int32]", "[int32]", false},
		{"[float32;3]", "[float32;3]", false},
		{"[[int32]]", "[[int32]]", false},
		{"[[int32];2]", "[[int32];2]", false},
		{"[float32;0]", "", true},
		{"[float32;x]", "", true},
		{"object", "", true},
		{"uuid", "", true},
	}

	for _, tt := range tests {
		typ, err := ParseType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if err == nil && typ.Name() != tt.want {
			t.Errorf("ParseType(%q).Name() = %q, want %q", tt.input, typ.Name(), tt.want)
		}
	}
}
