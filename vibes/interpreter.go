package vibes

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	// MaxStackLimit is the largest window Config.MaxStack may request.
	MaxStackLimit = 1_000_000

	defaultMaxStack       = MaxStackLimit
	defaultMaxStringBytes = 1 << 30
)

// Config controls engine bounds and logging.
type Config struct {
	// MaxStack caps the number of slots a single call window may hold. It is
	// clamped to MaxStackLimit.
	MaxStack int `toml:"max_stack"`
	// MaxStringBytes caps strings built by library buffers.
	MaxStringBytes int `toml:"max_string_bytes"`
	// LogLevel is a zerolog level name; empty disables logging.
	LogLevel  string    `toml:"log_level"`
	LogOutput io.Writer `toml:"-"`
}

// Engine owns the globals, the per-kind capability providers and the call
// convention builtins run under.
type Engine struct {
	config   Config
	baseLog  zerolog.Logger
	log      zerolog.Logger
	mu       sync.RWMutex
	globals  map[string]Value
	kindCaps map[ValueKind]*Capabilities
}

// NewEngine constructs an Engine with sane defaults.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.MaxStack <= 0 {
		cfg.MaxStack = defaultMaxStack
	}
	cfg.MaxStack = min(cfg.MaxStack, MaxStackLimit)
	if cfg.MaxStringBytes <= 0 {
		cfg.MaxStringBytes = defaultMaxStringBytes
	}
	logger, err := newLogger(cfg.LogLevel, cfg.LogOutput)
	if err != nil {
		return nil, err
	}
	return &Engine{
		config:   cfg,
		baseLog:  logger,
		log:      logger.With().Str(SourceLogFieldName, "vibes").Logger(),
		globals:  make(map[string]Value),
		kindCaps: make(map[ValueKind]*Capabilities),
	}, nil
}

// MustNewEngine is NewEngine for configurations known to be valid.
func MustNewEngine(cfg Config) *Engine {
	e, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Config() Config { return e.config }

func (e *Engine) RegisterBuiltin(name string, fn BuiltinFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.globals[name] = NewBuiltin(name, fn)
	e.log.Debug().Str("builtin", name).Msg("registered builtin")
}

// RegisterLibrary stores a table of builtins under the global name and
// returns it.
func (e *Engine) RegisterLibrary(name string, funcs map[string]BuiltinFunc) *Table {
	lib := NewTableSized(0, len(funcs))
	for _, fname := range slices.Sorted(maps.Keys(funcs)) {
		lib.RawSetString(fname, NewBuiltin(fname, funcs[fname]))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.globals[name] = NewTable(lib)
	e.log.Debug().Str("library", name).Int("functions", len(funcs)).Msg("registered library")
	return lib
}

func (e *Engine) Global(name string) (Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.globals[name]
	return v, ok
}

// Globals lists global names in sorted order.
func (e *Engine) Globals() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Sorted(maps.Keys(e.globals))
}

// Lookup resolves a global or a dotted library path such as "table.pack".
func (e *Engine) Lookup(path string) (Value, error) {
	head, rest, dotted := strings.Cut(path, ".")
	v, ok := e.Global(head)
	if !ok {
		return NewNil(), fmt.Errorf("%w %q", errUnknownBuiltin, path)
	}
	for dotted {
		var field string
		field, rest, dotted = strings.Cut(rest, ".")
		t := v.Table()
		if t == nil {
			return NewNil(), fmt.Errorf("%w %q", errUnknownBuiltin, path)
		}
		v = t.RawGetString(field)
	}
	if v.IsNil() {
		return NewNil(), fmt.Errorf("%w %q", errUnknownBuiltin, path)
	}
	return v, nil
}

// SetKindCapabilities registers the provider shared by every value of kind.
// Tables and userdata carry their own providers and ignore this registry.
func (e *Engine) SetKindCapabilities(kind ValueKind, caps *Capabilities) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caps == nil {
		delete(e.kindCaps, kind)
		return
	}
	e.kindCaps[kind] = caps
}

// CapabilitiesOf returns the provider associated with v, or nil.
func (e *Engine) CapabilitiesOf(v Value) *Capabilities {
	switch v.kind {
	case KindTable:
		return v.Table().caps
	case KindUserdata:
		return v.Userdata().caps
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.kindCaps[v.kind]
}

// Call invokes the builtin at path with args and returns its results.
func (e *Engine) Call(ctx context.Context, path string, args ...Value) ([]Value, error) {
	fn, err := e.Lookup(path)
	if err != nil {
		return nil, err
	}
	return e.CallValue(ctx, fn, args...)
}

// CallValue invokes fn with args in a fresh window. A failed call returns
// no results.
func (e *Engine) CallValue(ctx context.Context, fn Value, args ...Value) ([]Value, error) {
	b := fn.Builtin()
	if b == nil {
		return nil, &TypeError{Message: fmt.Sprintf("attempt to call a %s value", fn.TypeName())}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st := newState(ctx, e, b.Name, args)
	n, err := b.Fn(st)
	if err != nil {
		e.log.Debug().Str("builtin", b.Name).Int("args", len(args)).Err(err).Msg("call failed")
		return nil, wrapCallError(b.Name, err)
	}
	if n < 0 || n > st.Top() {
		return nil, NewRuntimeError(b.Name, nil, "builtin returned %d results with %d on the stack", n, st.Top())
	}
	e.log.Debug().Str("builtin", b.Name).Int("args", len(args)).Int("results", n).Msg("call returned")
	return st.Results(n), nil
}
