// Package batch splits an ordered input set into bounded-size groups so each
// coordinator cycle keeps at most one batch's worth of Textract jobs open.
package batch

// Partition splits ids into groups of at most size items, preserving order.
// The last group may be short. An empty input yields no groups.
// Concatenating the groups in order reconstructs ids exactly.
func Partition(ids []string, size int) [][]string {
	if size < 1 || len(ids) == 0 {
		return nil
	}
	groups := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		groups = append(groups, ids[start:end:end])
	}
	return groups
}
