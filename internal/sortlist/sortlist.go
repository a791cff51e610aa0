// Package sortlist implements the bottom-up, iterative linked-list merge
// sort of SPEC_FULL.md §4.7 — "Tatham's listsort", the algorithm
// underlying sortrecordlist() in original_source/src/dataselect.c — made
// generic here over any linked sequence addressed by an opaque key type
// (RecordID in every caller of this package), with list linkage supplied
// by the caller rather than baked into a node type.
package sortlist

// Links lets the sort mutate next-pointers without knowing the concrete
// node representation: Next returns the successor of id (the caller's
// "none" sentinel, passed to Merge, terminates the list), and SetNext
// rewrites it.
type Links[K comparable] interface {
	Next(id K) K
	SetNext(id K, next K)
}

// Merge performs a bottom-up, iterative merge sort on the singly-linked
// list starting at head, using less to order two keys. It is stable: on a
// tie the element from the earlier run is taken first, so equal keys keep
// their input order. It is O(n log n), tolerates an empty list (head ==
// none), and returns the new head.
//
// none is the sentinel value terminating the list (RecordNone for every
// current caller).
func Merge[K comparable](head K, none K, links Links[K], less func(a, b K) bool) K {
	if head == none {
		return none
	}

	// insize doubles each pass; merge runs of that length pairwise until
	// a full pass performs exactly one merge, at which point the list is
	// sorted. This mirrors the classic iterative list-mergesort shape
	// (Simon Tatham's public-domain algorithm) rather than a recursive
	// top-down split, avoiding O(n) list traversal just to find a
	// midpoint on every recursive call.
	list := head
	insize := 1

	for {
		p := list
		list = none
		var tail K
		haveTail := false
		merges := 0

		for p != none {
			merges++
			q := p
			psize := 0
			for i := 0; i < insize && q != none; i++ {
				psize++
				q = links.Next(q)
			}
			qsize := insize

			for psize > 0 || (qsize > 0 && q != none) {
				var e K
				switch {
				case psize == 0:
					e, q, qsize = q, links.Next(q), qsize-1
				case qsize == 0 || q == none:
					e, p, psize = p, links.Next(p), psize-1
				case !less(q, p):
					e, p, psize = p, links.Next(p), psize-1
				default:
					e, q, qsize = q, links.Next(q), qsize-1
				}

				if haveTail {
					links.SetNext(tail, e)
				} else {
					list = e
				}
				tail = e
				haveTail = true
			}

			p = q
		}

		links.SetNext(tail, none)

		if merges <= 1 {
			return list
		}
		insize *= 2
	}
}
