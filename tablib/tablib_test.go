package tablib

import (
	"bytes"
	"context"
	"testing"

	"github.com/mgomes/vibetables/vibes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, cfg vibes.Config) *vibes.Engine {
	t.Helper()
	engine, err := vibes.NewEngine(cfg)
	require.NoError(t, err)
	Open(engine)
	return engine
}

func call(t *testing.T, engine *vibes.Engine, name string, args ...vibes.Value) ([]vibes.Value, error) {
	t.Helper()
	return engine.Call(context.Background(), LibraryName+"."+name, args...)
}

func mustCall(t *testing.T, engine *vibes.Engine, name string, args ...vibes.Value) []vibes.Value {
	t.Helper()
	results, err := call(t, engine, name, args...)
	require.NoError(t, err)
	return results
}

func ints(values ...int64) []vibes.Value {
	out := make([]vibes.Value, len(values))
	for i, v := range values {
		out[i] = vibes.NewInt(v)
	}
	return out
}

func seq(values ...int64) vibes.Value {
	return vibes.NewTable(vibes.NewTableFrom(ints(values...)...))
}

// countingProxy is a container-like userdata over a fixed sequence that
// counts hook invocations.
type countingProxy struct {
	items   []vibes.Value
	reads   int
	lengths int
	length  vibes.Value
}

func (p *countingProxy) value(mask vibes.Capability) vibes.Value {
	caps := &vibes.Capabilities{}
	if mask&vibes.CapRead != 0 {
		caps.Read = func(_ *vibes.State, _ vibes.Value, key vibes.Value) (vibes.Value, error) {
			p.reads++
			i := key.Int()
			if i < 1 || i > int64(len(p.items)) {
				return vibes.NewNil(), nil
			}
			return p.items[i-1], nil
		}
	}
	if mask&vibes.CapLength != 0 {
		caps.Length = func(*vibes.State, vibes.Value) (vibes.Value, error) {
			p.lengths++
			if p.length.Kind() != vibes.KindNil {
				return p.length, nil
			}
			return vibes.NewInt(int64(len(p.items))), nil
		}
	}
	if mask&vibes.CapWrite != 0 {
		caps.Write = func(*vibes.State, vibes.Value, vibes.Value, vibes.Value) error { return nil }
	}
	return vibes.NewUserdata(p, caps)
}

func TestOpenRegistersLibrary(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	lib, ok := engine.Global(LibraryName)
	require.True(t, ok)
	require.NotNil(t, lib.Table())
	for _, name := range []string{"concat", "pack", "unpack"} {
		fn := lib.Table().RawGetString(name)
		assert.Equal(t, vibes.KindBuiltin, fn.Kind(), name)
	}
	assert.Equal(t, []string{"table.concat", "table.pack", "table.unpack"}, Names())
}

func TestOpenLogsUnderLibrarySource(t *testing.T) {
	var out bytes.Buffer
	engine, err := vibes.NewEngine(vibes.Config{LogLevel: "debug", LogOutput: &out})
	require.NoError(t, err)
	Open(engine)
	assert.Contains(t, out.String(), `"src":"tablib"`)
	assert.Contains(t, out.String(), `"msg":"opened library"`)
}
