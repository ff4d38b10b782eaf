package perm

import "slices"

// Seq returns the sequence [0, 1, ..., n-1]. For n <= 0 it returns an empty slice.
func Seq(n int) []int {
	if n <= 0 {
		return []int{}
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n!. For n <= 1, Factorial returns 1.
//
// Factorials grow extremely fast: 13! already exceeds 32-bit int, and
// the exact token swapper refuses devices whose state space n! is too large.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Generate returns permutations of [0, 1, ..., n-1] using Heap's algorithm.
//
// If limit > 0, Generate returns at most limit permutations.
// If limit <= 0, Generate returns all n! permutations.
//
// Each returned slice is a separate allocation. For n = 0 it returns [[]].
// Always pass a limit for n >= 10.
func Generate(n, limit int) [][]int {
	if n <= 0 {
		return [][]int{{}}
	}

	p := Seq(n)
	state := make([]int, n)

	capacity := limit
	if capacity <= 0 || capacity > Factorial(min(n, 10)) {
		capacity = Factorial(min(n, 10))
	}
	result := make([][]int, 0, capacity)
	result = append(result, slices.Clone(p))

	for i := 0; i < n && (limit <= 0 || len(result) < limit); {
		if state[i] < i {
			if i&1 == 0 {
				p[0], p[i] = p[i], p[0]
			} else {
				p[state[i]], p[i] = p[i], p[state[i]]
			}
			result = append(result, slices.Clone(p))
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
	return result
}
