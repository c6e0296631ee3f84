package lang

import (
	"iter"
	"slices"
)

// Kind indicates the variant held by a [Value].
type Kind int

const (
	// KindInteger represents a non-negative integer literal.
	KindInteger Kind = iota

	// KindText represents a quoted string literal.
	KindText

	// KindList represents an ordered sequence of values.
	KindList

	// KindDict represents an ordered mapping from string keys to values.
	KindDict
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"

	case KindText:
		return "Text"

	case KindList:
		return "List"

	case KindDict:
		return "Dict"

	default:
		return "Unknown"
	}
}

// Value is a node of the normalized value tree.
//
// Exactly one of the payload fields is meaningful, selected by Kind.
// Constant references never appear in a Value; they are resolved to a copy
// of the referenced value while parsing.
type Value struct {
	Kind  Kind
	Int   int64    // KindInteger
	Text  string   // KindText
	Items []*Value // KindList
	dict  *dict    // KindDict
}

// dict keeps keys in insertion order with an index for O(1) lookups.
type dict struct {
	keys  []string
	vals  []*Value
	index map[string]int
}

// NewInteger creates a new integer value.
func NewInteger(n int64) *Value {
	return &Value{Kind: KindInteger, Int: n}
}

// NewText creates a new text value.
func NewText(s string) *Value {
	return &Value{Kind: KindText, Text: s}
}

// NewList creates a new list value from the given items.
func NewList(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}

	return &Value{Kind: KindList, Items: items}
}

// NewDict creates a new empty dict value.
func NewDict() *Value {
	return &Value{
		Kind: KindDict,
		dict: &dict{index: make(map[string]int)},
	}
}

// Set stores val under key.
//
// Setting a key that is already present replaces its value and keeps the
// key's original position. Set panics if v is not a dict.
func (v *Value) Set(key string, val *Value) *Value {
	d := v.mustDict()

	if i, ok := d.index[key]; ok {
		d.vals[i] = val

		return v
	}

	d.index[key] = len(d.keys)
	d.keys = append(d.keys, key)
	d.vals = append(d.vals, val)

	return v
}

// Get returns the value stored under key in a dict.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != KindDict || v.dict == nil {
		return nil, false
	}

	i, ok := v.dict.index[key]
	if !ok {
		return nil, false
	}

	return v.dict.vals[i], true
}

// Keys returns the keys of a dict in insertion order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != KindDict || v.dict == nil {
		return nil
	}

	return slices.Clone(v.dict.keys)
}

// Len returns the number of items in a list or entries in a dict.
func (v *Value) Len() int {
	switch {
	case v == nil:
		return 0

	case v.Kind == KindList:
		return len(v.Items)

	case v.Kind == KindDict && v.dict != nil:
		return len(v.dict.keys)

	default:
		return 0
	}
}

// Entries returns an iterator over the key/value pairs of a dict in
// insertion order.
func (v *Value) Entries() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		if v == nil || v.Kind != KindDict || v.dict == nil {
			return
		}

		for i, key := range v.dict.keys {
			if !yield(key, v.dict.vals[i]) {
				return
			}
		}
	}
}

// Merge copies every entry of src into dict v, in src order, with
// last-write-wins semantics for keys already present.
func (v *Value) Merge(src *Value) *Value {
	for key, val := range src.Entries() {
		v.Set(key, val)
	}

	return v
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}

	switch v.Kind {
	case KindList:
		items := make([]*Value, len(v.Items))
		for i, item := range v.Items {
			items[i] = item.Clone()
		}

		return NewList(items...)

	case KindDict:
		c := NewDict()
		for key, val := range v.Entries() {
			c.Set(key, val.Clone())
		}

		return c

	default:
		c := *v

		return &c
	}
}

// Equal reports whether v and w hold the same tree. Dict equality is
// order-sensitive, since key order is part of the output.
func (v *Value) Equal(w *Value) bool {
	if v == nil || w == nil {
		return v == w
	}

	if v.Kind != w.Kind {
		return false
	}

	switch v.Kind {
	case KindInteger:
		return v.Int == w.Int

	case KindText:
		return v.Text == w.Text

	case KindList:
		return slices.EqualFunc(v.Items, w.Items, (*Value).Equal)

	case KindDict:
		if !slices.Equal(v.Keys(), w.Keys()) {
			return false
		}

		for key, val := range v.Entries() {
			other, _ := w.Get(key)
			if !val.Equal(other) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// Depth returns the nesting depth of v: 0 for scalars, and one more than the
// deepest child for lists and dicts.
func (v *Value) Depth() int {
	if v == nil {
		return 0
	}

	var children []*Value

	switch v.Kind {
	case KindList:
		children = v.Items

	case KindDict:
		for _, c := range v.Entries() {
			children = append(children, c)
		}

	default:
		return 0
	}

	deepest := 0
	for _, c := range children {
		deepest = max(deepest, c.Depth())
	}

	return deepest + 1
}

func (v *Value) mustDict() *dict {
	if v == nil || v.Kind != KindDict {
		panic("lang: Set called on non-dict value")
	}

	if v.dict == nil {
		v.dict = &dict{index: make(map[string]int)}
	}

	return v.dict
}
