package tablib

import (
	"fmt"

	"github.com/mgomes/vibetables/vibes"
)

// Concat implements table.concat(list [, sep [, i [, j]]]). It joins the
// string or number elements list[i..j] with sep between consecutive
// elements. i defaults to 1 and j to the length of list.
func Concat(st *vibes.State) (int, error) {
	// The length is taken even when j is given, so a failing length hook
	// fails the call.
	last, err := LengthOf(st, 1, vibes.CapRead)
	if err != nil {
		return 0, err
	}
	sep, err := st.OptString(2, "")
	if err != nil {
		return 0, err
	}
	i, err := st.OptInteger(3, 1)
	if err != nil {
		return 0, err
	}
	if last, err = st.OptInteger(4, last); err != nil {
		return 0, err
	}

	buf := st.NewBuffer()
	defer buf.Release()

	list := st.Get(1)
	// i < last keeps i+1 from overflowing when last is the largest integer.
	for ; i < last; i++ {
		if err := addField(st, buf, list, i); err != nil {
			return 0, err
		}
		if err := buf.AddString(sep); err != nil {
			return 0, err
		}
	}
	if i == last {
		if err := addField(st, buf, list, i); err != nil {
			return 0, err
		}
	}
	st.Push(buf.Result())
	return 1, nil
}

func addField(st *vibes.State, buf *vibes.Buffer, list vibes.Value, i int64) error {
	v, err := st.GetI(list, i)
	if err != nil {
		return err
	}
	s, ok := vibes.ToText(v)
	if !ok {
		return &vibes.TypeError{
			Function: st.Function(),
			Message:  fmt.Sprintf("invalid value (%s) at index %d in table for '%s'", v.TypeName(), i, st.Function()),
		}
	}
	return buf.AddString(s)
}
