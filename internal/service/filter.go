package service

import "strings"

// Filter keeps items where any of the fields contains query, ignoring case.
// An empty query returns items unchanged. The query is matched as typed,
// surrounding spaces included.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	if query == "" {
		return items
	}
	query = strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), query) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
