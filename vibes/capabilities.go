package vibes

import "strings"

// Capability is a set of container operations a value can provide.
type Capability uint8

const (
	CapRead Capability = 1 << iota
	CapWrite
	CapLength

	CapReadWrite = CapRead | CapWrite
)

// capabilityOrder is the order requirement bits are checked in.
var capabilityOrder = [...]Capability{CapRead, CapWrite, CapLength}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, bit := range capabilityOrder {
		if c&bit == 0 {
			continue
		}
		switch bit {
		case CapRead:
			parts = append(parts, "read")
		case CapWrite:
			parts = append(parts, "write")
		case CapLength:
			parts = append(parts, "length")
		}
	}
	return strings.Join(parts, "|")
}

type (
	ReadHook   func(st *State, recv Value, key Value) (Value, error)
	WriteHook  func(st *State, recv Value, key Value, val Value) error
	LengthHook func(st *State, recv Value) (Value, error)
)

// Capabilities is the companion provider that lets a non-table value behave
// like a container. Each hook is optional; a nil hook is absent.
type Capabilities struct {
	Read   ReadHook
	Write  WriteHook
	Length LengthHook
}

// Has reports whether the provider defines the hook for a single capability
// bit. It only inspects presence and never calls the hook.
func (c *Capabilities) Has(bit Capability) bool {
	if c == nil {
		return false
	}
	switch bit {
	case CapRead:
		return c.Read != nil
	case CapWrite:
		return c.Write != nil
	case CapLength:
		return c.Length != nil
	default:
		return false
	}
}

// Missing returns the first bit of mask, in read, write, length order, that
// the provider cannot satisfy, or 0 when every bit is covered.
func (c *Capabilities) Missing(mask Capability) Capability {
	for _, bit := range capabilityOrder {
		if mask&bit != 0 && !c.Has(bit) {
			return bit
		}
	}
	return 0
}

func (u *Userdata) Capabilities() *Capabilities { return u.caps }
