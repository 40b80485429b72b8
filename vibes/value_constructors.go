package vibes

func NewNil() Value            { return Value{kind: KindNil} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }

// NewTable wraps t; a nil table yields nil.
func NewTable(t *Table) Value {
	if t == nil {
		return NewNil()
	}
	return Value{kind: KindTable, data: t}
}

func NewUserdata(data any, caps *Capabilities) Value {
	return Value{kind: KindUserdata, data: &Userdata{Data: data, caps: caps}}
}

func NewBuiltin(name string, fn BuiltinFunc) Value {
	return Value{kind: KindBuiltin, data: &Builtin{Name: name, Fn: fn}}
}
