package vibes

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTable:
		return "table"
	case KindUserdata:
		return "userdata"
	case KindBuiltin:
		return "builtin"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TypeName is the guest-visible kind name used in error messages.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindInt, KindFloat:
		return "number"
	case KindString:
		return "string"
	case KindTable:
		return "table"
	case KindUserdata:
		return "userdata"
	case KindBuiltin:
		return "function"
	default:
		return "no value"
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindFloat:
		return formatFloat(v.data.(float64))
	case KindString:
		return v.data.(string)
	case KindTable:
		return formatTable(v.data.(*Table))
	case KindUserdata:
		return fmt.Sprintf("userdata: %p", v.data)
	case KindBuiltin:
		return fmt.Sprintf("builtin: %s", v.data.(*Builtin).Name)
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', 14, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func formatTable(t *Table) string {
	var b strings.Builder
	b.WriteString("{")
	n := 0
	sep := func() {
		if n > 0 {
			b.WriteString(", ")
		}
		n++
	}
	for _, v := range t.arr {
		sep()
		if v.kind == KindTable {
			b.WriteString("table")
			continue
		}
		b.WriteString(quoteIfString(v))
	}
	keys := make([]Value, 0, len(t.hash))
	for k := range t.hash {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return natural.Less(keys[i].String(), keys[j].String()) })
	for _, k := range keys {
		sep()
		val := t.hash[k]
		if k.kind == KindString {
			b.WriteString(k.String())
		} else {
			fmt.Fprintf(&b, "[%s]", quoteIfString(k))
		}
		b.WriteString("=")
		if val.kind == KindTable {
			b.WriteString("table")
			continue
		}
		b.WriteString(quoteIfString(val))
	}
	b.WriteString("}")
	return b.String()
}

func quoteIfString(v Value) string {
	if v.kind == KindString {
		return strconv.Quote(v.data.(string))
	}
	return v.String()
}
