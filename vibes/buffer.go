package vibes

import (
	"fmt"
	"strings"
)

// Buffer is an append-only text buffer scoped to one builtin call. Release
// must run on every path; deferring it right after NewBuffer is the norm.
type Buffer struct {
	st       *State
	b        strings.Builder
	limit    int
	released bool
}

func (st *State) NewBuffer() *Buffer {
	return &Buffer{st: st, limit: st.engine.config.MaxStringBytes}
}

func (b *Buffer) Len() int { return b.b.Len() }

func (b *Buffer) AddString(s string) error {
	if b.released {
		return fmt.Errorf("%s: buffer used after release", b.st.function)
	}
	if len(s) > b.limit-b.b.Len() {
		return fmt.Errorf("%w (%d bytes)", ErrStringTooLarge, b.limit)
	}
	b.b.WriteString(s)
	return nil
}

// AddValue appends the text form of a string or number.
func (b *Buffer) AddValue(v Value) error {
	s, ok := ToText(v)
	if !ok {
		return fmt.Errorf("%s: cannot buffer a %s value", b.st.function, v.TypeName())
	}
	return b.AddString(s)
}

// Result finalizes the buffer into a string value and releases it.
func (b *Buffer) Result() Value {
	s := b.b.String()
	b.Release()
	return NewString(s)
}

// Release drops the buffered text. It is safe to call more than once.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.b.Reset()
}
