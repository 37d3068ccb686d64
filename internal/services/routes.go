package services

import (
	"delivery-cost-service/internal/domain"
	"iter"
	"slices"
)

// Routes yields every visiting order of centers.
//
// Permutations are produced by recursive selection without replacement:
// pick the next unused center in input order, recurse, backtrack. The
// sequence is deterministic for a given input order and can be ranged over
// any number of times. Each yielded Route is a fresh slice owned by the
// caller. The sequence has n! elements.
func Routes(centers []string) iter.Seq[domain.Route] {
	return func(yield func(domain.Route) bool) {
		n := len(centers)
		if n == 0 {
			return
		}

		used := make([]bool, n)
		current := make(domain.Route, 0, n)

		var permute func() bool
		permute = func() bool {
			if len(current) == n {
				return yield(slices.Clone(current))
			}
			for i, c := range centers {
				if used[i] {
					continue
				}
				used[i] = true
				current = append(current, c)
				more := permute()
				current = current[:len(current)-1]
				used[i] = false
				if !more {
					return false
				}
			}
			return true
		}
		permute()
	}
}

// PermutationCount returns n!, the number of routes over n centers.
func PermutationCount(n int) int {
	if n <= 0 {
		return 0
	}
	count := 1
	for i := 2; i <= n; i++ {
		count *= i
	}
	return count
}
