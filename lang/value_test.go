package lang

import (
	"slices"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestValue_SetKeepsInsertionOrder(t *testing.T) {
	d := NewDict().
		Set("z", NewInteger(1)).
		Set("a", NewInteger(2)).
		Set("m", NewInteger(3)).
		Set("a", NewInteger(4))

	if got := d.Keys(); !slices.Equal(got, []string{"z", "a", "m"}) {
		t.Errorf("Keys() = %v", got)
	}

	if v, ok := d.Get("a"); !ok || v.Int != 4 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}

	if d.Len() != 3 {
		t.Errorf("Len() = %d", d.Len())
	}
}

func TestValue_SetPanicsOnNonDict(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Set on a list did not panic")
		}
	}()

	NewList().Set("a", NewInteger(1))
}

func TestValue_ZeroDictIsUsable(t *testing.T) {
	v := &Value{Kind: KindDict}

	if v.Len() != 0 || v.Keys() != nil {
		t.Errorf("zero dict: Len = %d, Keys = %v", v.Len(), v.Keys())
	}

	v.Set("a", NewInteger(1))

	if got, ok := v.Get("a"); !ok || got.Int != 1 {
		t.Errorf("Get after Set on zero dict = %v, %v", got, ok)
	}
}

func TestValue_Merge(t *testing.T) {
	dst := NewDict().Set("a", NewInteger(1)).Set("b", NewInteger(2))
	src := NewDict().Set("c", NewInteger(3)).Set("a", NewText("x"))

	dst.Merge(src)

	want := NewDict().
		Set("a", NewText("x")).
		Set("b", NewInteger(2)).
		Set("c", NewInteger(3))

	if !dst.Equal(want) {
		t.Errorf("Merge = %s, want %s", dst, want)
	}
}

func TestValue_CloneIsDeep(t *testing.T) {
	orig := NewDict().Set("l", NewList(NewInteger(1), NewDict().Set("k", NewText("v"))))
	cp := orig.Clone()

	if !cp.Equal(orig) {
		t.Fatalf("Clone = %s, want %s", cp, orig)
	}

	l, _ := cp.Get("l")
	l.Items[0].Int = 99
	inner := l.Items[1]
	inner.Set("k", NewText("changed"))
	l.Items = append(l.Items, NewInteger(5))

	if orig.String() != `{ l = [1, { k = "v" }] }` {
		t.Errorf("original modified through clone: %s", orig)
	}
}

func TestValue_Equal(t *testing.T) {
	ab := NewDict().Set("a", NewInteger(1)).Set("b", NewInteger(2))
	ba := NewDict().Set("b", NewInteger(2)).Set("a", NewInteger(1))

	tests := []struct {
		name string
		x, y *Value
		want bool
	}{
		{"integers", NewInteger(1), NewInteger(1), true},
		{"different integers", NewInteger(1), NewInteger(2), false},
		{"kinds differ", NewInteger(1), NewText("1"), false},
		{"texts", NewText("a"), NewText("a"), true},
		{"lists", NewList(NewInteger(1)), NewList(NewInteger(1)), true},
		{"list lengths", NewList(NewInteger(1)), NewList(), false},
		{"dicts", ab, ab.Clone(), true},
		{"dict order matters", ab, ba, false},
		{"nil nil", nil, nil, true},
		{"nil value", nil, NewDict(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.x.Equal(tt.y); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Depth(t *testing.T) {
	tests := []struct {
		v    *Value
		want int
	}{
		{NewInteger(1), 0},
		{NewText(""), 0},
		{NewList(), 1},
		{NewDict(), 1},
		{NewList(NewInteger(1), NewList(NewList())), 3},
		{NewDict().Set("a", NewList(NewDict())), 3},
	}

	for _, tt := range tests {
		if got := tt.v.Depth(); got != tt.want {
			t.Errorf("Depth(%s) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestValue_Native(t *testing.T) {
	v := NewDict().
		Set("n", NewInteger(7)).
		Set("s", NewText("x")).
		Set("l", NewList(NewInteger(1), NewText("y")))

	got, ok := v.Native().(yaml.MapSlice)
	if !ok {
		t.Fatalf("Native() = %T, want yaml.MapSlice", v.Native())
	}

	if len(got) != 3 || got[0].Key != "n" || got[0].Value != int64(7) {
		t.Errorf("Native() = %#v", got)
	}

	if got[1].Value != "x" {
		t.Errorf("text = %#v", got[1].Value)
	}

	l, ok := got[2].Value.([]any)
	if !ok || len(l) != 2 || l[0] != int64(1) || l[1] != "y" {
		t.Errorf("list = %#v", got[2].Value)
	}

	if empty, _ := NewList().Native().([]any); empty == nil {
		t.Error("empty list must be non-nil so it serializes as []")
	}
}

func TestKind_String(t *testing.T) {
	for k, want := range map[Kind]string{
		KindInteger: "Integer",
		KindText:    "Text",
		KindList:    "List",
		KindDict:    "Dict",
		Kind(99):    "Unknown",
	} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
