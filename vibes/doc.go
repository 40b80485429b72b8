// Package vibes implements the host side of the VibeTables runtime:
//   - Values: nil, booleans, integers, floats, strings, tables, userdata and
//     builtin functions.
//   - Tables with an array part and a hash part, read and written raw.
//   - Capability providers that let non-table values act like containers
//     through optional read, write and length hooks.
//   - The call window builtins run in (State), with 1-based argument access,
//     a capacity check against Config.MaxStack and scoped string buffers.
//   - An Engine holding globals, per-kind providers and the call convention.
//
// Libraries such as tablib register their builtins on an Engine and are
// invoked through Engine.Call.
package vibes
