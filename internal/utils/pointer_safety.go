package utils

import "net/url"

func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// AddOptional sets key in q to format(*v) when v is non-nil.
func AddOptional[T any](q url.Values, key string, v *T, format func(T) string) {
	if v == nil {
		return
	}
	q.Set(key, format(*v))
}

// AddNonZero sets key in q when v is not the zero value.
func AddNonZero[T comparable](q url.Values, key string, v T, format func(T) string) {
	var zero T
	if v == zero {
		return
	}
	q.Set(key, format(v))
}
