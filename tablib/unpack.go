package tablib

import (
	"math"

	"github.com/mgomes/vibetables/vibes"
)

// maxUnpack bounds the results of a single unpack independently of the
// configured stack size.
const maxUnpack = uint64(math.MaxInt32)

// Unpack implements table.unpack(list [, i [, j]]), returning list[i..j].
// i defaults to 1 and j to the length of list.
func Unpack(st *vibes.State) (int, error) {
	first, err := st.OptInteger(2, 1)
	if err != nil {
		return 0, err
	}
	var last int64
	if st.IsNoneOrNil(3) {
		last, err = LengthOf(st, 1, vibes.CapRead)
	} else {
		last, err = st.CheckInteger(3)
	}
	if err != nil {
		return 0, err
	}
	if first > last {
		return 0, nil
	}

	// span is the element count minus one. As an unsigned difference of
	// ordered int64s it cannot wrap, where last-first+1 could.
	span := uint64(last) - uint64(first)
	if span >= maxUnpack || !st.CheckStack(int(span)+1) {
		st.Logger().Debug().Int64("first", first).Int64("last", last).Msg("unpack range rejected")
		return 0, vibes.NewRuntimeError(st.Function(), vibes.ErrTooManyResults, "too many results to unpack")
	}

	list := st.Get(1)
	base := st.Top()
	i := first
	for ; i < last; i++ {
		if err := pushField(st, list, i, base); err != nil {
			return 0, err
		}
	}
	if err := pushField(st, list, last, base); err != nil {
		return 0, err
	}
	return int(span) + 1, nil
}

// pushField pushes list[i]; on failure it drops everything pushed above base.
func pushField(st *vibes.State, list vibes.Value, i int64, base int) error {
	v, err := st.GetI(list, i)
	if err != nil {
		st.SetTop(base)
		return err
	}
	st.Push(v)
	return nil
}
