package model

// RecordID indexes into a RecordArena. It is the arena-based replacement
// for the original source's Record pointers, generalizing
// iamNilotpal-ignite's RecordPointer key/offset pairing (see model.go's
// package doc).
type RecordID int

// TrimBound carries the boundaries to apply when repacking a record — not
// new times of the original samples, per SPEC_FULL.md §3. Either field may
// be NSTUnset.
type TrimBound struct {
	NewStart, NewEnd NSTime
}

// Unset reports whether neither bound has been set.
func (t TrimBound) Unset() bool {
	return t.NewStart == NSTUnset && t.NewEnd == NSTUnset
}

// SelectBound carries the effective intersection of user selection windows
// that apply to a record, per SPEC_FULL.md §3/§4.3.
type SelectBound struct {
	Start, End NSTime
}

// Unset reports whether no selection window constrains this record.
func (s SelectBound) Unset() bool {
	return s.Start == NSTUnset && s.End == NSTUnset
}

// Record is a pointer to one miniSEED record on disk plus the in-memory
// metadata the engine mutates across ingest, pruning, and writing
// (SPEC_FULL.md §3, §4.1).
type Record struct {
	File   *FileRef
	Offset int64
	// RecLen is the parsed record length in bytes. A value of 0 marks the
	// record non-contributing (invariant I2): the Coverage Analyzer,
	// Reconciler, and Writer all skip it, but the entry is not freed —
	// freeing happens when write lists are built in the Writer's regroup
	// pass.
	RecLen int

	StartTime, EndTime NSTime
	PubVersion         int
	SampleRate         float64
	// Encoding names the sample encoding as the codec reports it:
	// "int16", "int32", "float32", "float64", "steim1", or "steim2".
	Encoding string

	Trim   TrimBound
	Select SelectBound

	// Prev/Next link this record within its owning Segment's doubly-
	// linked RecordList (invariant I1: non-decreasing start time until
	// the Pruner mutates it). RecordNone terminates either end.
	Prev, Next RecordID
}

// Effective returns the record's effective interval: TrimBound applied
// over the original interval, further intersected with any SelectBound,
// per invariant I4's definition of effective(r).
func (r *Record) Effective() (start, end NSTime) {
	start, end = r.StartTime, r.EndTime
	if r.Trim.NewStart.IsSet() {
		start = r.Trim.NewStart
	}
	if r.Trim.NewEnd.IsSet() {
		end = r.Trim.NewEnd
	}
	if r.Select.Start.IsSet() && r.Select.Start > start {
		start = r.Select.Start
	}
	if r.Select.End.IsSet() && r.Select.End < end {
		end = r.Select.End
	}
	return start, end
}

// EffectiveStart is the sort key the Merge Sort and regroup pass use:
// TrimBound.NewStart if set, else the original start time.
func (r *Record) EffectiveStart() NSTime {
	if r.Trim.NewStart.IsSet() {
		return r.Trim.NewStart
	}
	return r.StartTime
}

// Contributing reports whether this record still contributes output,
// i.e. RecLen has not been zeroed by the Pruner.
func (r *Record) Contributing() bool { return r.RecLen > 0 }

// RecordArena owns every Record allocated during a run, addressed by
// RecordID. It never shrinks: the Pruner marks entries non-contributing
// by zeroing RecLen rather than freeing them, and the Writer's regroup
// pass is the only place entries are dropped from further traversal (by
// excluding them from the rebuilt write lists).
type RecordArena struct {
	records []Record
}

// NewRecordArena returns an empty arena pre-sized for an expected record
// count, avoiding reallocation churn during ingest of large inputs.
func NewRecordArena(expected int) *RecordArena {
	return &RecordArena{records: make([]Record, 0, expected)}
}

// Alloc appends rec to the arena and returns its new RecordID.
func (a *RecordArena) Alloc(rec Record) RecordID {
	id := RecordID(len(a.records))
	a.records = append(a.records, rec)
	return id
}

// Get returns a pointer to the record at id for in-place mutation.
func (a *RecordArena) Get(id RecordID) *Record {
	if id == RecordNone {
		return nil
	}
	return &a.records[id]
}

// Len returns the number of records ever allocated (including those since
// marked non-contributing).
func (a *RecordArena) Len() int { return len(a.records) }

// Append adds rec to the end of seg's RecordList, returning its RecordID.
func (a *RecordArena) Append(seg *Segment, rec Record) RecordID {
	rec.Prev, rec.Next = seg.Tail, RecordNone
	id := a.Alloc(rec)
	if seg.Tail != RecordNone {
		a.Get(seg.Tail).Next = id
	} else {
		seg.Head = id
	}
	seg.Tail = id
	return id
}

// Prepend adds rec to the front of seg's RecordList, returning its
// RecordID. Used when whence_of classifies an insertion as extending a
// Segment at its beginning (SPEC_FULL.md §4.2, a "reorder" event).
func (a *RecordArena) Prepend(seg *Segment, rec Record) RecordID {
	rec.Prev, rec.Next = RecordNone, seg.Head
	id := a.Alloc(rec)
	if seg.Head != RecordNone {
		a.Get(seg.Head).Prev = id
	} else {
		seg.Tail = id
	}
	seg.Head = id
	return id
}

// Walk calls fn for every record in seg's RecordList in order, stopping
// early if fn returns false.
func (a *RecordArena) Walk(seg *Segment, fn func(id RecordID, rec *Record) bool) {
	for id := seg.Head; id != RecordNone; {
		rec := a.Get(id)
		next := rec.Next
		if !fn(id, rec) {
			return
		}
		id = next
	}
}
