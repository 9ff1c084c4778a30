package codegen

import (
	"sort"
	"strconv"
	"strings"
)

// nameOrder compares generated names by namespace, then by counter, so
// "record_2" sorts before "record_10".
func nameOrder(a, b string) bool {
	pa, na := splitName(a)
	pb, nb := splitName(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitName(name string) (string, int) {
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return name, -1
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return name, -1
	}
	return name[:i], n
}

func sortByName[T any](items []T, name func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		return nameOrder(name(items[i]), name(items[j]))
	})
}
