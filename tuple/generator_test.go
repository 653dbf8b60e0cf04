package tuple_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbanos/mdfs/tuple"
)

func drainAll(t *testing.T, g *tuple.Generator, k int) [][]int {
	t.Helper()
	var tuples [][]int
	buf := make([]int, k)
	for g.HasNext() {
		ok := g.Next(buf)
		if !ok {
			break
		}
		cp := append([]int(nil), buf...)
		tuples = append(tuples, cp)
	}
	return tuples
}

func TestGeneratorEnumeratesAllPairsLexicographically(t *testing.T) {
	g := tuple.New(4, 2)
	got := drainAll(t, g, 2)
	want := [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	require.Equal(t, want, got)
}

func TestGeneratorCountMatchesBinomialCoefficient(t *testing.T) {
	g := tuple.New(6, 3)
	got := drainAll(t, g, 3)
	require.Len(t, got, 20) // C(6,3) = 20
}

func TestGeneratorKEqualsOne(t *testing.T) {
	g := tuple.New(3, 1)
	got := drainAll(t, g, 1)
	require.Equal(t, [][]int{{0}, {1}, {2}}, got)
}

func TestGeneratorKEqualsUniverse(t *testing.T) {
	g := tuple.New(3, 3)
	got := drainAll(t, g, 3)
	require.Equal(t, [][]int{{0, 1, 2}}, got)
}

func TestGeneratorEmptyWhenKExceedsUniverse(t *testing.T) {
	g := tuple.New(2, 3)
	require.False(t, g.HasNext())
}

func TestGeneratorRestrictedYieldsOriginalIds(t *testing.T) {
	g := tuple.NewRestricted([]int{2, 5, 9}, 2)
	got := drainAll(t, g, 2)
	require.Equal(t, [][]int{{2, 5}, {2, 9}, {5, 9}}, got)
}

func TestGeneratorConcurrentDrainYieldsEachTupleOnce(t *testing.T) {
	g := tuple.New(7, 2)
	const workers = 8
	results := make(chan []int, 100)
	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			buf := make([]int, 2)
			for g.HasNext() {
				if g.Next(buf) {
					results <- append([]int(nil), buf...)
				}
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	close(results)
	seen := make(map[[2]int]bool)
	count := 0
	for r := range results {
		key := [2]int{r[0], r[1]}
		require.False(t, seen[key], "tuple %v observed more than once", r)
		seen[key] = true
		count++
	}
	require.Equal(t, 21, count) // C(7,2) = 21
}
