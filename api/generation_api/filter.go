package generation_api

import "github.com/sahilm/fuzzy"

// Filter returns the indexes of source matching pattern, best match first.
// An empty pattern keeps every entry in inventory order.
func Filter(pattern string, source fuzzy.Source) []int {
	if pattern == "" {
		indexes := make([]int, source.Len())
		for i := range indexes {
			indexes[i] = i
		}
		return indexes
	}

	results := fuzzy.FindFrom(pattern, source)
	indexes := make([]int, len(results))
	for i, result := range results {
		indexes[i] = result.Index
	}
	return indexes
}
