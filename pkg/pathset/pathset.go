// Package pathset provides order-preserving set operations over path lists.
//
// Paths are compared by exact string equality; callers are expected to hand
// in consistently normalized paths (see pkg/traverse).
package pathset

// Difference returns the elements of a that are not present in b,
// preserving a's relative order. Both inputs may be empty.
func Difference(a, b []string) []string {
	if len(a) == 0 {
		return nil
	}
	exclude := make(map[string]struct{}, len(b))
	for _, p := range b {
		exclude[p] = struct{}{}
	}
	var out []string
	for _, p := range a {
		if _, ok := exclude[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Dedupe removes repeated elements from a, keeping the first occurrence's
// position.
func Dedupe(a []string) []string {
	if len(a) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a))
	var out []string
	for _, p := range a {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
