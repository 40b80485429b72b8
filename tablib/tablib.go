// Package tablib implements the table library: concat, pack and unpack over
// native tables and over any value whose capability provider lets it
// behave like one.
package tablib

import (
	"maps"
	"slices"

	"github.com/mgomes/vibetables/vibes"
)

// LibraryName is the global the library is registered under.
const LibraryName = "table"

// Functions returns the library's builtins keyed by name.
func Functions() map[string]vibes.BuiltinFunc {
	return map[string]vibes.BuiltinFunc{
		"concat": Concat,
		"pack":   Pack,
		"unpack": Unpack,
	}
}

// Names lists the library's qualified function names in sorted order.
func Names() []string {
	names := slices.Sorted(maps.Keys(Functions()))
	for i, name := range names {
		names[i] = LibraryName + "." + name
	}
	return names
}

// Open registers the library on e and returns its table.
func Open(e *vibes.Engine) *vibes.Table {
	lib := e.RegisterLibrary(LibraryName, Functions())
	log := e.ChildLogger("tablib")
	log.Debug().Strs("functions", Names()).Msg("opened library")
	return lib
}
