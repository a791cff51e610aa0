package sortlist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/dataselect/internal/sortlist"
)

type intList struct {
	next map[int]int
}

func (l *intList) Next(id int) int     { return l.next[id] }
func (l *intList) SetNext(id, next int) { l.next[id] = next }

func buildList(values []int) (*intList, int) {
	l := &intList{next: make(map[int]int)}
	none := -1
	head := none
	var tail int
	for i, v := range values {
		if i == 0 {
			head = v
		} else {
			l.next[tail] = v
		}
		tail = v
	}
	l.next[tail] = none
	return l, head
}

func toSlice(l *intList, head, none int) []int {
	var out []int
	for id := head; id != none; id = l.Next(id) {
		out = append(out, id)
	}
	return out
}

func TestMerge_SortsAscending(t *testing.T) {
	l, head := buildList([]int{5, 3, 1, 4, 2})
	sorted := sortlist.Merge(head, -1, l, func(a, b int) bool { return a < b })
	require.Equal(t, []int{1, 2, 3, 4, 5}, toSlice(l, sorted, -1))
}

func TestMerge_EmptyListReturnsNone(t *testing.T) {
	l := &intList{next: make(map[int]int)}
	sorted := sortlist.Merge(-1, -1, l, func(a, b int) bool { return a < b })
	require.Equal(t, -1, sorted)
}

func TestMerge_SingleElementIsUnchanged(t *testing.T) {
	l, head := buildList([]int{7})
	sorted := sortlist.Merge(head, -1, l, func(a, b int) bool { return a < b })
	require.Equal(t, []int{7}, toSlice(l, sorted, -1))
}

func TestMerge_StableOnEqualKeys(t *testing.T) {
	// rank is a parallel key map; ties on rank should preserve
	// original relative order (ids in ascending id order for equal rank).
	rank := map[int]int{10: 1, 11: 1, 12: 0, 13: 1}
	l, head := buildList([]int{10, 11, 12, 13})
	sorted := sortlist.Merge(head, -1, l, func(a, b int) bool { return rank[a] < rank[b] })
	require.Equal(t, []int{12, 10, 11, 13}, toSlice(l, sorted, -1))
}
