package tablib

import "github.com/mgomes/vibetables/vibes"

// Pack implements table.pack(...). The result holds the arguments at keys
// 1..n and n itself under "n", so trailing nils stay countable.
func Pack(st *vibes.State) (int, error) {
	n := st.Top()
	t := vibes.NewTableSized(n, 1)
	for i := 1; i <= n; i++ {
		t.RawSetInt(int64(i), st.Get(i))
	}
	t.RawSetString("n", vibes.NewInt(int64(n)))
	st.SetTop(0)
	st.Push(vibes.NewTable(t))
	return 1, nil
}
