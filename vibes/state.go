package vibes

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// State is the evaluation stack window of a single builtin call. Slot 1 is
// the first argument; results are pushed above the arguments.
type State struct {
	ctx      context.Context
	engine   *Engine
	function string
	stack    []Value
	maxStack int
}

func newState(ctx context.Context, e *Engine, function string, args []Value) *State {
	stack := make([]Value, len(args), len(args)+minStackSlack)
	copy(stack, args)
	return &State{
		ctx:      ctx,
		engine:   e,
		function: function,
		stack:    stack,
		maxStack: e.config.MaxStack,
	}
}

const minStackSlack = 20

func (st *State) Context() context.Context { return st.ctx }

func (st *State) Engine() *Engine { return st.engine }

// Function is the name of the builtin being called, used in error messages.
func (st *State) Function() string { return st.function }

func (st *State) Logger() *zerolog.Logger { return &st.engine.log }

func (st *State) Top() int { return len(st.stack) }

// SetTop truncates the window to n slots, or extends it with nils.
func (st *State) SetTop(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(st.stack) {
		clear(st.stack[n:])
		st.stack = st.stack[:n]
		return
	}
	for len(st.stack) < n {
		st.stack = append(st.stack, NewNil())
	}
}

// Push appends v to the window. Callers pushing more than minStackSlack
// values must reserve room with CheckStack first.
func (st *State) Push(v Value) {
	st.stack = append(st.stack, v)
}

func (st *State) absIndex(idx int) int {
	if idx < 0 {
		return len(st.stack) + idx + 1
	}
	return idx
}

// IsNone reports whether idx lies outside the window.
func (st *State) IsNone(idx int) bool {
	idx = st.absIndex(idx)
	return idx < 1 || idx > len(st.stack)
}

func (st *State) IsNoneOrNil(idx int) bool {
	return st.IsNone(idx) || st.Get(idx).IsNil()
}

// Get returns the value at idx (1-based, negative counts from the top), or
// nil when idx is outside the window.
func (st *State) Get(idx int) Value {
	if st.IsNone(idx) {
		return NewNil()
	}
	return st.stack[st.absIndex(idx)-1]
}

// Results returns a copy of the top n values.
func (st *State) Results(n int) []Value {
	if n <= 0 {
		return nil
	}
	if n > len(st.stack) {
		n = len(st.stack)
	}
	return slices.Clone(st.stack[len(st.stack)-n:])
}

// CheckStack reports whether n more values fit in the window without
// exceeding the configured capacity, reserving the room when they do.
func (st *State) CheckStack(n int) bool {
	if n < 0 {
		return false
	}
	if n > st.maxStack-len(st.stack) {
		return false
	}
	st.stack = slices.Grow(st.stack, n)
	return true
}

// GetI reads v[i]. Tables are read raw first and fall back to their read
// hook on a miss; other values need a read hook.
func (st *State) GetI(v Value, i int64) (Value, error) {
	if t := v.Table(); t != nil {
		raw := t.RawGetInt(i)
		if !raw.IsNil() || !t.caps.Has(CapRead) {
			return raw, nil
		}
		return t.caps.Read(st, v, NewInt(i))
	}
	caps := st.engine.CapabilitiesOf(v)
	if !caps.Has(CapRead) {
		return NewNil(), &TypeError{Function: st.function, Message: fmt.Sprintf("attempt to index a %s value", v.TypeName())}
	}
	return caps.Read(st, v, NewInt(i))
}

// SetI writes v[i] = val. Tables write raw unless the key is absent and a
// write hook is attached; other values need a write hook.
func (st *State) SetI(v Value, i int64, val Value) error {
	if t := v.Table(); t != nil {
		if t.caps.Has(CapWrite) && t.RawGetInt(i).IsNil() {
			return t.caps.Write(st, v, NewInt(i), val)
		}
		t.RawSetInt(i, val)
		return nil
	}
	caps := st.engine.CapabilitiesOf(v)
	if !caps.Has(CapWrite) {
		return &TypeError{Function: st.function, Message: fmt.Sprintf("attempt to index a %s value", v.TypeName())}
	}
	return caps.Write(st, v, NewInt(i), val)
}

// Len returns the length of v without coercing it. Tables and strings have
// an intrinsic length; other values need a length hook.
func (st *State) Len(v Value) (Value, error) {
	switch v.kind {
	case KindTable:
		return NewInt(v.Table().Len()), nil
	case KindString:
		return NewInt(int64(len(v.data.(string)))), nil
	}
	caps := st.engine.CapabilitiesOf(v)
	if !caps.Has(CapLength) {
		return NewNil(), &TypeError{Function: st.function, Message: fmt.Sprintf("attempt to get length of a %s value", v.TypeName())}
	}
	return caps.Length(st, v)
}
