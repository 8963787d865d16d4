package utils

import "sort"

// UniqueInts returns the distinct values of a in increasing order.
func UniqueInts(a []int) []int {
	res := append([]int(nil), a...)
	sort.Ints(res)
	n := 0
	for i, v := range res {
		if i == 0 || v != res[n-1] {
			res[n] = v
			n++
		}
	}
	return res[:n]
}

// IntersectInts returns the distinct values present in both a and b.
func IntersectInts(a, b []int) []int {
	in := make(map[int]bool, len(b))
	for _, v := range b {
		in[v] = true
	}
	res := []int{}
	for _, v := range UniqueInts(a) {
		if in[v] {
			res = append(res, v)
		}
	}
	return res
}

// SameInts reports whether a and b hold the same set of values.
func SameInts(a, b []int) bool {
	ua, ub := UniqueInts(a), UniqueInts(b)
	if len(ua) != len(ub) {
		return false
	}
	for i := range ua {
		if ua[i] != ub[i] {
			return false
		}
	}
	return true
}

func ContainsInt(a []int, v int) bool {
	for _, x := range a {
		if x == v {
			return true
		}
	}
	return false
}
