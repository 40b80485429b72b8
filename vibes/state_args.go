package vibes

import "fmt"

// ArgError reports a problem with argument arg of the running builtin.
func (st *State) ArgError(arg int, format string, args ...any) error {
	return &TypeError{Function: st.function, Arg: arg, Message: fmt.Sprintf(format, args...)}
}

// TypeErrorf reports that argument arg is not of the expected kind.
func (st *State) TypeErrorf(arg int, expected string) error {
	actual := "no value"
	if !st.IsNone(arg) {
		actual = st.Get(arg).TypeName()
	}
	return st.ArgError(arg, "%s expected, got %s", expected, actual)
}

// CheckInteger returns argument arg as an integer, accepting integral floats
// and numeric strings.
func (st *State) CheckInteger(arg int) (int64, error) {
	v := st.Get(arg)
	if i, ok := ToInteger(v); ok {
		return i, nil
	}
	if _, ok := ToNumber(v); ok {
		return 0, st.ArgError(arg, "number has no integer representation")
	}
	return 0, st.TypeErrorf(arg, "number")
}

// OptInteger is CheckInteger with def used for an absent or nil argument.
func (st *State) OptInteger(arg int, def int64) (int64, error) {
	if st.IsNoneOrNil(arg) {
		return def, nil
	}
	return st.CheckInteger(arg)
}

// OptString returns argument arg as text; numbers convert to their text
// form, an absent or nil argument yields def.
func (st *State) OptString(arg int, def string) (string, error) {
	if st.IsNoneOrNil(arg) {
		return def, nil
	}
	if s, ok := ToText(st.Get(arg)); ok {
		return s, nil
	}
	return "", st.TypeErrorf(arg, "string")
}
