package tablib

import (
	"fmt"

	"github.com/mgomes/vibetables/vibes"
)

// EnsureContainerLike accepts native tables unconditionally and any other
// value whose capability provider defines a hook for every bit in mask.
// Only hook presence is checked; no hook runs.
func EnsureContainerLike(e *vibes.Engine, v vibes.Value, mask vibes.Capability) error {
	if v.Kind() == vibes.KindTable {
		return nil
	}
	if caps := e.CapabilitiesOf(v); caps != nil && caps.Missing(mask) == 0 {
		return nil
	}
	return &vibes.TypeError{Message: fmt.Sprintf("table expected, got %s", v.TypeName())}
}

// CheckContainer is EnsureContainerLike applied to argument arg of the
// running builtin, reported as a bad-argument error.
func CheckContainer(st *vibes.State, arg int, mask vibes.Capability) error {
	if err := EnsureContainerLike(st.Engine(), st.Get(arg), mask); err != nil {
		return st.TypeErrorf(arg, "table")
	}
	return nil
}
