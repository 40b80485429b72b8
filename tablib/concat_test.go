package tablib

import (
	"errors"
	"math"
	"testing"

	"github.com/mgomes/vibetables/vibes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concatString(t *testing.T, engine *vibes.Engine, args ...vibes.Value) string {
	t.Helper()
	results := mustCall(t, engine, "concat", args...)
	require.Len(t, results, 1)
	require.Equal(t, vibes.KindString, results[0].Kind())
	return results[0].String()
}

func TestConcatScenarios(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	list := seq(10, 20, 30)

	assert.Equal(t, "102030", concatString(t, engine, list))
	assert.Equal(t, "10-20-30", concatString(t, engine, list, vibes.NewString("-")))
	assert.Equal(t, "20,30", concatString(t, engine, list, vibes.NewString(","), vibes.NewInt(2), vibes.NewInt(3)))
	assert.Equal(t, "10", concatString(t, engine, list, vibes.NewString(","), vibes.NewNil(), vibes.NewInt(1)))
}

func TestConcatJoinsTextForms(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	list := vibes.NewTable(vibes.NewTableFrom(
		vibes.NewString("a"),
		vibes.NewInt(1),
		vibes.NewFloat(2.5),
		vibes.NewFloat(3),
	))
	assert.Equal(t, "a 1 2.5 3.0", concatString(t, engine, list, vibes.NewString(" ")))
	assert.Equal(t, "a11", concatString(t, engine, list, vibes.NewInt(1), vibes.NewInt(1), vibes.NewInt(2)))
}

func TestConcatDefaultEqualsJoinedEntries(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	for n := 0; n <= 20; n++ {
		values := make([]int64, n)
		want := ""
		for i := range values {
			values[i] = int64(i * 7)
			want += vibes.NewInt(values[i]).String()
		}
		assert.Equal(t, want, concatString(t, engine, seq(values...)), "n=%d", n)
	}
}

func TestConcatEmptyRangeReadsNothing(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	assert.Equal(t, "", concatString(t, engine, seq(), vibes.NewString(",")))

	proxy := &countingProxy{items: ints(1, 2, 3)}
	v := proxy.value(vibes.CapRead | vibes.CapLength)
	assert.Equal(t, "", concatString(t, engine, v, vibes.NewString(","), vibes.NewInt(3), vibes.NewInt(2)))
	assert.Zero(t, proxy.reads)
	assert.Equal(t, 1, proxy.lengths)
}

func TestConcatSingleElementRange(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	proxy := &countingProxy{items: ints(1, 2, 3)}
	v := proxy.value(vibes.CapRead | vibes.CapLength)
	assert.Equal(t, "2", concatString(t, engine, v, vibes.NewString(","), vibes.NewInt(2), vibes.NewInt(2)))
	assert.Equal(t, 1, proxy.reads)
}

func TestConcatOverCapabilityProvider(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	proxy := &countingProxy{items: ints(4, 5, 6)}
	v := proxy.value(vibes.CapRead | vibes.CapLength)
	assert.Equal(t, "4+5+6", concatString(t, engine, v, vibes.NewString("+")))
	assert.Equal(t, 3, proxy.reads)
	assert.Equal(t, 1, proxy.lengths)
}

func TestConcatRequiresReadAndLength(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	for _, mask := range []vibes.Capability{vibes.CapRead, vibes.CapLength, vibes.CapReadWrite} {
		proxy := &countingProxy{items: ints(1)}
		_, err := call(t, engine, "concat", proxy.value(mask), vibes.NewString(""), vibes.NewInt(1), vibes.NewInt(1))
		assert.ErrorContains(t, err, "table expected, got userdata", "mask %s", mask)
		assert.Zero(t, proxy.reads)
	}
}

func TestConcatRejectsNonScalarElement(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	list := vibes.NewTable(vibes.NewTableFrom(
		vibes.NewInt(1),
		vibes.NewTable(vibes.NewTableSized(0, 0)),
		vibes.NewInt(3),
	))
	results, err := call(t, engine, "concat", list, vibes.NewString(","))
	assert.Nil(t, results)
	var typeErr *vibes.TypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "invalid value (table) at index 2 in table for 'concat'", typeErr.Message)

	list = seq(1, 2)
	_, err = call(t, engine, "concat", list, vibes.NewString(","), vibes.NewInt(1), vibes.NewInt(3))
	assert.ErrorContains(t, err, "invalid value (nil) at index 3 in table for 'concat'")

	bools := vibes.NewTable(vibes.NewTableFrom(vibes.NewBool(true)))
	_, err = call(t, engine, "concat", bools)
	assert.ErrorContains(t, err, "invalid value (boolean) at index 1")
}

func TestConcatPropagatesHookErrors(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	boom := errors.New("boom")
	caps := &vibes.Capabilities{
		Read: func(*vibes.State, vibes.Value, vibes.Value) (vibes.Value, error) {
			return vibes.NewNil(), boom
		},
		Length: func(*vibes.State, vibes.Value) (vibes.Value, error) {
			return vibes.NewInt(2), nil
		},
	}
	_, err := call(t, engine, "concat", vibes.NewUserdata(nil, caps))
	assert.ErrorIs(t, err, boom)
}

func TestConcatAtIntegerLimit(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	caps := &vibes.Capabilities{
		Read: func(_ *vibes.State, _ vibes.Value, key vibes.Value) (vibes.Value, error) {
			if key.Int() == math.MaxInt64 {
				return vibes.NewString("z"), nil
			}
			return vibes.NewString("y"), nil
		},
		Length: func(*vibes.State, vibes.Value) (vibes.Value, error) { return vibes.NewInt(0), nil },
	}
	v := vibes.NewUserdata(nil, caps)
	last := vibes.NewInt(math.MaxInt64)
	assert.Equal(t, "z", concatString(t, engine, v, vibes.NewString(","), last, last))
	assert.Equal(t, "y,z", concatString(t, engine, v, vibes.NewString(","), vibes.NewInt(math.MaxInt64-1), last))
}

func TestConcatArgumentErrors(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	list := seq(1, 2)
	_, err := call(t, engine, "concat", list, vibes.NewBool(true))
	assert.ErrorContains(t, err, "bad argument #2 to 'concat' (string expected, got boolean)")

	_, err = call(t, engine, "concat", list, vibes.NewString(""), vibes.NewFloat(1.5))
	assert.ErrorContains(t, err, "bad argument #3 to 'concat' (number has no integer representation)")

	_, err = call(t, engine, "concat", list, vibes.NewString(""), vibes.NewInt(1), vibes.NewString("x"))
	assert.ErrorContains(t, err, "bad argument #4 to 'concat' (number expected, got string)")
}

func TestConcatLengthHookMustBeInteger(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	proxy := &countingProxy{items: ints(1, 2), length: vibes.NewFloat(1.5)}
	_, err := call(t, engine, "concat", proxy.value(vibes.CapRead|vibes.CapLength))
	assert.ErrorContains(t, err, "object length is not an integer")
	assert.Zero(t, proxy.reads)
}

func TestConcatRespectsStringLimit(t *testing.T) {
	engine := newEngine(t, vibes.Config{MaxStringBytes: 4})
	list := vibes.NewTable(vibes.NewTableFrom(vibes.NewString("abc"), vibes.NewString("def")))
	_, err := call(t, engine, "concat", list)
	assert.ErrorIs(t, err, vibes.ErrStringTooLarge)
}

func TestConcatExplicitBoundsStillQueryLength(t *testing.T) {
	engine := newEngine(t, vibes.Config{})
	boom := errors.New("length boom")
	reads := 0
	caps := &vibes.Capabilities{
		Read: func(_ *vibes.State, _ vibes.Value, key vibes.Value) (vibes.Value, error) {
			reads++
			return key, nil
		},
		Length: func(*vibes.State, vibes.Value) (vibes.Value, error) {
			return vibes.NewNil(), boom
		},
	}
	bounds := []vibes.Value{vibes.NewString("-"), vibes.NewInt(1), vibes.NewInt(3)}

	results, err := call(t, engine, "concat", append([]vibes.Value{vibes.NewUserdata(nil, caps)}, bounds...)...)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, reads)

	proxy := &countingProxy{items: ints(1, 2, 3), length: vibes.NewFloat(2.5)}
	_, err = call(t, engine, "concat", append([]vibes.Value{proxy.value(vibes.CapRead | vibes.CapLength)}, bounds...)...)
	assert.ErrorContains(t, err, "object length is not an integer")
	assert.Zero(t, proxy.reads)

	proxy = &countingProxy{items: ints(1, 2, 3), length: vibes.NewInt(1)}
	assert.Equal(t, "1-2-3", concatString(t, engine, append([]vibes.Value{proxy.value(vibes.CapRead | vibes.CapLength)}, bounds...)...))
	assert.Equal(t, 1, proxy.lengths)
}
