package schema

// Record is a decoded instance of a Schema, keyed by lower_snake field names.
//
// Values are normalized: int32, int64, float32, bool, string, typed slices
// ([]int32, []float32, ...), Record for nested objects and []Record for lists
// of objects. Records are never mutated after decoding.
type Record map[string]any

// Has reports whether the record carries a slot for name.
func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

func (r Record) Int32(name string) int32 {
	v, _ := r[name].(int32)
	return v
}

func (r Record) Int64(name string) int64 {
	v, _ := r.Int(name)
	return v
}

// Int returns an integer field widened to int64.
func (r Record) Int(name string) (int64, bool) {
	switch v := r[name].(type) {
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func (r Record) Float32(name string) float32 {
	v, _ := r[name].(float32)
	return v
}

func (r Record) Bool(name string) bool {
	v, _ := r[name].(bool)
	return v
}

func (r Record) String(name string) string {
	v, _ := r[name].(string)
	return v
}

// Object returns a nested record, or nil.
func (r Record) Object(name string) Record {
	v, _ := r[name].(Record)
	return v
}

// Objects returns a list of nested records, or nil.
func (r Record) Objects(name string) []Record {
	v, _ := r[name].([]Record)
	return v
}

// ID returns the value of the schema's key field.
func (r Record) ID(s *Schema) (int64, bool) {
	key, ok := s.Key()
	if !ok {
		return 0, false
	}
	return r.Int(key.Name)
}

// KeyFunc returns an identifier extractor for records of s.
// It returns nil when s declares no key field.
func KeyFunc(s *Schema) func(Record) int64 {
	key, ok := s.Key()
	if !ok {
		return nil
	}
	return func(r Record) int64 {
		return r.Int64(key.Name)
	}
}
