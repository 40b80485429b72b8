package main

import (
	"strings"

	"github.com/mgomes/vibetables/tablib"
	"github.com/mgomes/vibetables/vibes"
)

// newHostEngine builds the engine the CLI and REPL evaluate against: the
// table library plus host helpers for building container-like values.
func newHostEngine(cfg vibes.Config) (*vibes.Engine, error) {
	engine, err := vibes.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	tablib.Open(engine)
	engine.RegisterBuiltin("proxy", builtinProxy)
	engine.RegisterBuiltin("type", builtinType)
	return engine, nil
}

// builtinProxy implements proxy(t [, hooks]). It wraps table t in a userdata
// whose capability provider forwards to t. hooks picks the provided hooks
// from "r", "w" and "l" and defaults to "rl".
func builtinProxy(st *vibes.State) (int, error) {
	target := st.Get(1).Table()
	if target == nil {
		return 0, st.TypeErrorf(1, "table")
	}
	hooks, err := st.OptString(2, "rl")
	if err != nil {
		return 0, err
	}
	caps := &vibes.Capabilities{}
	for _, r := range strings.ToLower(hooks) {
		switch r {
		case 'r':
			caps.Read = func(_ *vibes.State, _ vibes.Value, key vibes.Value) (vibes.Value, error) {
				return target.RawGet(key), nil
			}
		case 'w':
			caps.Write = func(_ *vibes.State, _ vibes.Value, key vibes.Value, val vibes.Value) error {
				return target.RawSet(key, val)
			}
		case 'l':
			caps.Length = func(_ *vibes.State, _ vibes.Value) (vibes.Value, error) {
				return vibes.NewInt(target.Len()), nil
			}
		default:
			return 0, st.ArgError(2, "unknown hook %q", string(r))
		}
	}
	st.Push(vibes.NewUserdata(target, caps))
	return 1, nil
}

func builtinType(st *vibes.State) (int, error) {
	if st.IsNone(1) {
		return 0, st.ArgError(1, "value expected")
	}
	st.Push(vibes.NewString(st.Get(1).TypeName()))
	return 1, nil
}
