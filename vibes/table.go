package vibes

import (
	"errors"
	"math"
)

var (
	errNilTableKey = errors.New("table index is nil")
	errNaNTableKey = errors.New("table index is NaN")
)

// Table is the native container. Keys 1..len(arr) live in the array part,
// every other key in the hash part. The array part never ends in nil.
type Table struct {
	arr  []Value
	hash map[Value]Value
	caps *Capabilities
}

func NewTableSized(narr, nrec int) *Table {
	t := &Table{}
	if narr > 0 {
		t.arr = make([]Value, 0, narr)
	}
	if nrec > 0 {
		t.hash = make(map[Value]Value, nrec)
	}
	return t
}

// NewTableFrom builds a sequence table holding values at keys 1..len(values).
func NewTableFrom(values ...Value) *Table {
	t := NewTableSized(len(values), 0)
	for i, v := range values {
		t.RawSetInt(int64(i+1), v)
	}
	return t
}

func (t *Table) Capabilities() *Capabilities { return t.caps }

// SetCapabilities attaches a provider consulted when a read misses raw
// storage. Native tables satisfy every container check regardless.
func (t *Table) SetCapabilities(c *Capabilities) { t.caps = c }

func (t *Table) RawGetInt(i int64) Value {
	if i >= 1 && i <= int64(len(t.arr)) {
		return t.arr[i-1]
	}
	if t.hash == nil {
		return NewNil()
	}
	return t.hash[NewInt(i)]
}

func (t *Table) RawGetString(key string) Value {
	if t.hash == nil {
		return NewNil()
	}
	return t.hash[NewString(key)]
}

func (t *Table) RawGet(key Value) Value {
	key, err := normalizeKey(key)
	if err != nil {
		return NewNil()
	}
	if key.kind == KindInt {
		return t.RawGetInt(key.Int())
	}
	if t.hash == nil {
		return NewNil()
	}
	return t.hash[key]
}

func (t *Table) RawSetInt(i int64, v Value) {
	n := int64(len(t.arr))
	switch {
	case i >= 1 && i <= n:
		t.arr[i-1] = v
		if i == n && v.IsNil() {
			t.trimArray()
		}
	case i == n+1 && !v.IsNil():
		t.arr = append(t.arr, v)
		if t.hash != nil {
			delete(t.hash, NewInt(i))
			t.migrateFromHash()
		}
	default:
		t.setHash(NewInt(i), v)
	}
}

func (t *Table) RawSetString(key string, v Value) {
	t.setHash(NewString(key), v)
}

func (t *Table) RawSet(key, v Value) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if key.kind == KindInt {
		t.RawSetInt(key.Int(), v)
		return nil
	}
	t.setHash(key, v)
	return nil
}

// Len returns a border: a non-negative n where t[n] is non-nil (or n is 0)
// and t[n+1] is nil.
func (t *Table) Len() int64 {
	n := int64(len(t.arr))
	if t.hash == nil {
		return n
	}
	for n < math.MaxInt64 {
		if _, ok := t.hash[NewInt(n+1)]; !ok {
			break
		}
		n++
	}
	return n
}

func (t *Table) setHash(key, v Value) {
	if v.IsNil() {
		if t.hash != nil {
			delete(t.hash, key)
		}
		return
	}
	if t.hash == nil {
		t.hash = make(map[Value]Value)
	}
	t.hash[key] = v
}

func (t *Table) trimArray() {
	for len(t.arr) > 0 && t.arr[len(t.arr)-1].IsNil() {
		t.arr = t.arr[:len(t.arr)-1]
	}
}

func (t *Table) migrateFromHash() {
	for {
		next := NewInt(int64(len(t.arr)) + 1)
		v, ok := t.hash[next]
		if !ok {
			return
		}
		t.arr = append(t.arr, v)
		delete(t.hash, next)
	}
}

func normalizeKey(key Value) (Value, error) {
	switch key.kind {
	case KindNil:
		return key, errNilTableKey
	case KindFloat:
		f := key.Float()
		if math.IsNaN(f) {
			return key, errNaNTableKey
		}
		if i, ok := floatToInteger(f); ok {
			return NewInt(i), nil
		}
	}
	return key, nil
}
