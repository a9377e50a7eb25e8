package mapper

import "fmt"

// MapSlice applies mapFunc to each element. A nil input stays nil.
func MapSlice[T any, R any](items []T, mapFunc func(T) R) []R {
	if items == nil {
		return nil
	}

	result := make([]R, 0, len(items))
	for _, item := range items {
		result = append(result, mapFunc(item))
	}
	return result
}

// MapSliceOrEmpty is MapSlice but never returns nil, so JSON renders [] instead of null.
func MapSliceOrEmpty[T any, R any](items []T, mapFunc func(T) R) []R {
	if items == nil {
		return []R{}
	}
	return MapSlice(items, mapFunc)
}

// MapSliceWithError stops at the first failing element.
func MapSliceWithError[T any, R any](items []T, mapFunc func(T) (R, error)) ([]R, error) {
	if items == nil {
		return nil, nil
	}

	result := make([]R, 0, len(items))
	for i, item := range items {
		mapped, err := mapFunc(item)
		if err != nil {
			return nil, fmt.Errorf("map item %d: %w", i, err)
		}
		result = append(result, mapped)
	}
	return result, nil
}
