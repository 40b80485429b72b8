package vibes

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTable
	KindUserdata
	KindBuiltin
)

// Value is a guest value. Values are comparable, so they can key a table's
// hash part directly; reference kinds carry a pointer in data.
type Value struct {
	kind ValueKind
	data any
}

type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

// BuiltinFunc runs with its arguments in the state's window and returns how
// many results it left at the top of the stack.
type BuiltinFunc func(st *State) (int, error)

// Userdata is an opaque host value. It behaves like a container only
// through its capability provider.
type Userdata struct {
	Data any
	caps *Capabilities
}
