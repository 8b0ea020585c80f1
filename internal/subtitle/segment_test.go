package subtitle

import (
	"reflect"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

func cuesAt(starts ...float64) []Cue {
	cues := make([]Cue, len(starts))
	for i, s := range starts {
		cues[i] = Cue{
			Index: i + 1,
			Start: s,
			End:   s + 2,
			Text:  gofakeit.Sentence(4),
		}
	}
	return cues
}

func TestComputeSegmentsNoSplit(t *testing.T) {
	cues := cuesAt(0, 30, 70, 200, 210)

	segments := ComputeSegments(cues, 0)
	want := []Segment{{Index: 1, StartIndex: 0, EndIndex: 4, Count: 5}}
	if !reflect.DeepEqual(segments, want) {
		t.Fatalf("splitMinutes=0: got %+v, want %+v", segments, want)
	}
}

func TestComputeSegmentsTimeWindow(t *testing.T) {
	// Anchor 0: 30 stays (diff 30), 70 opens a new segment (diff 70 > 60).
	// Anchor 70: 200 opens a new segment (diff 130). Anchor 200: 210 stays.
	cues := cuesAt(0, 30, 70, 200, 210)

	segments := ComputeSegments(cues, 1)
	want := []Segment{
		{Index: 1, StartIndex: 0, EndIndex: 1, Count: 2},
		{Index: 2, StartIndex: 2, EndIndex: 2, Count: 1},
		{Index: 3, StartIndex: 3, EndIndex: 4, Count: 2},
	}
	if !reflect.DeepEqual(segments, want) {
		t.Fatalf("got %+v, want %+v", segments, want)
	}
}

func TestComputeSegmentsBoundaryIsInclusive(t *testing.T) {
	// A cue exactly on anchor+threshold belongs to the current segment;
	// only a strictly greater start opens a new one.
	cues := cuesAt(0, 60, 60.001)

	segments := ComputeSegments(cues, 1)
	want := []Segment{
		{Index: 1, StartIndex: 0, EndIndex: 1, Count: 2},
		{Index: 2, StartIndex: 2, EndIndex: 2, Count: 1},
	}
	if !reflect.DeepEqual(segments, want) {
		t.Fatalf("got %+v, want %+v", segments, want)
	}
}

func TestComputeSegmentsEmptyAndSingle(t *testing.T) {
	segments := ComputeSegments(nil, 5)
	want := []Segment{{Index: 1, StartIndex: 0, EndIndex: -1, Count: 0}}
	if !reflect.DeepEqual(segments, want) {
		t.Fatalf("empty list: got %+v, want %+v", segments, want)
	}

	segments = ComputeSegments(cuesAt(42), 5)
	want = []Segment{{Index: 1, StartIndex: 0, EndIndex: 0, Count: 1}}
	if !reflect.DeepEqual(segments, want) {
		t.Fatalf("single cue: got %+v, want %+v", segments, want)
	}
}

func TestComputeSegmentsNegativeDurationClamps(t *testing.T) {
	cues := cuesAt(0, 1000, 2000)

	segments := ComputeSegments(cues, -3)
	if len(segments) != 1 || segments[0].Count != 3 {
		t.Fatalf("negative duration should behave like 0, got %+v", segments)
	}
}

func TestComputeSegmentsPartition(t *testing.T) {
	// Segments must cover every index exactly once, in order, for any
	// sorted input and any positive duration.
	start := 0.0
	var starts []float64
	for i := 0; i < 500; i++ {
		start += gofakeit.Float64Range(0.1, 90)
		starts = append(starts, start)
	}
	cues := cuesAt(starts...)

	for _, minutes := range []int{1, 2, 5, 20} {
		segments := ComputeSegments(cues, minutes)

		next := 0
		for i, seg := range segments {
			if seg.Index != i+1 {
				t.Fatalf("minutes=%d: segment %d has Index %d", minutes, i, seg.Index)
			}
			if seg.StartIndex != next {
				t.Fatalf("minutes=%d: gap or overlap at segment %d: StartIndex=%d, want %d",
					minutes, i, seg.StartIndex, next)
			}
			if seg.Count != seg.EndIndex-seg.StartIndex+1 {
				t.Fatalf("minutes=%d: segment %d count mismatch: %+v", minutes, i, seg)
			}
			if seg.Count < 1 {
				t.Fatalf("minutes=%d: segment %d is empty", minutes, i)
			}
			next = seg.EndIndex + 1
		}
		if next != len(cues) {
			t.Fatalf("minutes=%d: segments end at %d, want %d", minutes, next, len(cues))
		}

		// Every segment stays within the time window relative to its anchor.
		threshold := float64(minutes) * 60
		for i, seg := range segments {
			anchor := cues[seg.StartIndex].Start
			last := cues[seg.EndIndex].Start
			if last-anchor > threshold {
				t.Fatalf("minutes=%d: segment %d spans %.1fs, threshold %.1fs",
					minutes, i, last-anchor, threshold)
			}
		}
	}
}

func TestComputeSegmentsMonotonicInDuration(t *testing.T) {
	start := 0.0
	var starts []float64
	for i := 0; i < 200; i++ {
		start += gofakeit.Float64Range(1, 120)
		starts = append(starts, start)
	}
	cues := cuesAt(starts...)

	prev := len(ComputeSegments(cues, 1))
	for minutes := 2; minutes <= 20; minutes++ {
		n := len(ComputeSegments(cues, minutes))
		if n > prev {
			t.Fatalf("minutes=%d produced %d segments, more than %d at minutes=%d",
				minutes, n, prev, minutes-1)
		}
		prev = n
	}
}

func TestComputeSegmentsIdempotent(t *testing.T) {
	cues := cuesAt(0, 10, 100, 250, 400, 1000)

	first := ComputeSegments(cues, 3)
	second := ComputeSegments(cues, 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated calls differ: %+v vs %+v", first, second)
	}
}

func TestSliceBySegment(t *testing.T) {
	cues := cuesAt(0, 30, 70, 200, 210)
	segments := ComputeSegments(cues, 1)

	var total int
	for _, seg := range segments {
		part := SliceBySegment(cues, seg)
		if len(part) != seg.Count {
			t.Fatalf("segment %d: slice has %d cues, want %d", seg.Index, len(part), seg.Count)
		}
		if part[0].Start != cues[seg.StartIndex].Start {
			t.Fatalf("segment %d: wrong first cue", seg.Index)
		}
		total += len(part)
	}
	if total != len(cues) {
		t.Fatalf("slices cover %d cues, want %d", total, len(cues))
	}

	if part := SliceBySegment(nil, Segment{Index: 1, StartIndex: 0, EndIndex: -1, Count: 0}); part != nil {
		t.Fatalf("degenerate segment should slice to nil, got %v", part)
	}
}
