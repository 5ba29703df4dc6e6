package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// seqIDs returns a generator yielding t1, t2, t3, ...
func seqIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

// newTestStore returns a store holding n tabs t1..tn with tn active.
func newTestStore(t *testing.T, n int) *Store {
	t.Helper()
	store := New(State{}, WithIDGenerator(seqIDs()))
	for i := 1; i < n; i++ {
		_, ok := store.AddTab("", "", "")
		require.True(t, ok)
	}
	require.Equal(t, n, store.Len())
	return store
}

func requireValid(t *testing.T, st State) {
	t.Helper()
	require.NoError(t, st.Check())
}
