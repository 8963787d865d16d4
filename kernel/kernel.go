package kernel

// RunKernel finds the longest run of consecutive indices in [0, n) for which
// pred holds.
type RunKernel interface {
	LongestRun(n int, pred func(i int) bool) int
}

// Sequential is the default RunKernel, a single pass over the indices.
type Sequential struct{}

func NewSequential() *Sequential {
	return &Sequential{}
}

func (k *Sequential) LongestRun(n int, pred func(i int) bool) int {
	longest, current := 0, 0
	for i := 0; i < n; i++ {
		if !pred(i) {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	return longest
}
