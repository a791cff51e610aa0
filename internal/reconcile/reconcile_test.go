package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/dataselect/internal/model"
	"github.com/iamNilotpal/dataselect/internal/reconcile"
)

func sec(n int64) model.NSTime { return model.NSTime(n * int64(model.NanosecondsPerSecond)) }

func TestSegment_RestoresBoundsFromSurvivingRecords(t *testing.T) {
	arena := model.NewRecordArena(4)
	seg := &model.Segment{StartTime: sec(0), EndTime: sec(30), Head: model.RecordNone, Tail: model.RecordNone}

	arena.Append(seg, model.Record{StartTime: sec(0), EndTime: sec(10), RecLen: 0}) // pruned
	arena.Append(seg, model.Record{StartTime: sec(10), EndTime: sec(20), RecLen: 512, Trim: model.TrimBound{NewStart: sec(12), NewEnd: model.NSTUnset}})
	arena.Append(seg, model.Record{StartTime: sec(20), EndTime: sec(30), RecLen: 512, Trim: model.TrimBound{NewStart: model.NSTUnset, NewEnd: sec(28)}})

	reconcile.Segment(arena, seg)

	require.Equal(t, sec(12), seg.StartTime)
	require.Equal(t, sec(28), seg.EndTime)
}

func TestSegment_NoSurvivorsLeavesBoundsUntouched(t *testing.T) {
	arena := model.NewRecordArena(4)
	seg := &model.Segment{StartTime: sec(0), EndTime: sec(10), Head: model.RecordNone, Tail: model.RecordNone}
	arena.Append(seg, model.Record{StartTime: sec(0), EndTime: sec(10), RecLen: 0})

	reconcile.Segment(arena, seg)

	require.Equal(t, sec(0), seg.StartTime)
	require.Equal(t, sec(10), seg.EndTime)
}
