// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice compliments the standard [slices] package by providing functional
programming utilities (Map, Set) leveraging generics.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Set builds a membership set from a slice of comparable values.
func Set[T comparable](input []T) map[T]struct{} {
	set := make(map[T]struct{}, len(input))
	for _, v := range input {
		set[v] = struct{}{}
	}
	return set
}
