package tablib

import "github.com/mgomes/vibetables/vibes"

// LengthOf validates argument arg for CapLength plus extra and returns its
// length as an integer. A length hook yielding a non-integer is a type
// error; negative lengths pass through and simply produce empty ranges.
func LengthOf(st *vibes.State, arg int, extra vibes.Capability) (int64, error) {
	if err := CheckContainer(st, arg, vibes.CapLength|extra); err != nil {
		return 0, err
	}
	n, err := st.Len(st.Get(arg))
	if err != nil {
		return 0, err
	}
	i, ok := vibes.ToInteger(n)
	if !ok {
		return 0, &vibes.TypeError{Function: st.Function(), Message: "object length is not an integer"}
	}
	return i, nil
}
