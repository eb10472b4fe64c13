package domain

// MetaKind discriminates metadata value variants.
type MetaKind int

// Metadata value kinds. The set is closed: filtering code pattern-matches
// on expected kinds instead of assuming an open-ended dynamic shape.
const (
	KindNumber MetaKind = iota
	KindString
	KindBool
	KindStringList
)

// MetaValue is a tagged metadata value (number, string, bool, or list of strings).
type MetaValue struct {
	kind MetaKind
	num  float64
	str  string
	b    bool
	list []string
}

// Number creates a numeric metadata value.
func Number(v float64) MetaValue { return MetaValue{kind: KindNumber, num: v} }

// String creates a string metadata value.
func String(v string) MetaValue { return MetaValue{kind: KindString, str: v} }

// Bool creates a boolean metadata value.
func Bool(v bool) MetaValue { return MetaValue{kind: KindBool, b: v} }

// StringList creates a list-of-strings metadata value.
func StringList(v []string) MetaValue {
	c := make([]string, len(v))
	copy(c, v)
	return MetaValue{kind: KindStringList, list: c}
}

// Kind returns the value kind.
func (v MetaValue) Kind() MetaKind { return v.kind }

// AsNumber returns the numeric value, reporting whether the kind matched.
func (v MetaValue) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsString returns the string value, reporting whether the kind matched.
func (v MetaValue) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBool returns the boolean value, reporting whether the kind matched.
func (v MetaValue) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsStringList returns the list value, reporting whether the kind matched.
func (v MetaValue) AsStringList() ([]string, bool) { return v.list, v.kind == KindStringList }

// Metadata is free-form per-item metadata (price, author, duration, ...).
type Metadata map[string]MetaValue

// Clone returns a copy of the metadata map.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	c := make(Metadata, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Price returns the numeric price if present. Items without a numeric
// price report ok=false regardless of whether a "price" key exists.
func (m Metadata) Price() (float64, bool) {
	v, ok := m["price"]
	if !ok {
		return 0, false
	}
	return v.AsNumber()
}

// Merge returns a copy with entries from other overriding existing keys.
func (m Metadata) Merge(other Metadata) Metadata {
	out := m.Clone()
	if out == nil {
		out = make(Metadata, len(other))
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
