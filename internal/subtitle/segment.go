package subtitle

// Segment describes a contiguous run of cues treated as one translation or
// display unit. StartIndex and EndIndex are inclusive positions into the cue
// list the segment was computed from; the cues themselves are not copied.
type Segment struct {
	Index      int `json:"index"` // 1-based position among the segments
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
	Count      int `json:"count"`
}

// ComputeSegments partitions a time-ordered cue list into contiguous segments
// so that no segment spans more than splitMinutes of wall-clock time. The
// first cue of each segment is the anchor; a cue whose Start exceeds the
// anchor by strictly more than the threshold closes the open segment and
// anchors the next one. A cue landing exactly on the threshold stays in the
// current segment.
//
// splitMinutes <= 0 disables splitting and yields a single segment covering
// everything. Cues must already be sorted by ascending Start; the function
// does not sort. An empty list yields one degenerate segment with Count 0
// and EndIndex -1.
func ComputeSegments(cues []Cue, splitMinutes int) []Segment {
	if splitMinutes < 0 {
		splitMinutes = 0
	}

	n := len(cues)
	if splitMinutes == 0 || n <= 1 {
		return []Segment{{Index: 1, StartIndex: 0, EndIndex: n - 1, Count: n}}
	}

	threshold := float64(splitMinutes) * 60
	anchor := cues[0].Start
	segStart := 0

	var segments []Segment
	for i := 1; i < n; i++ {
		if cues[i].Start-anchor > threshold {
			segments = append(segments, Segment{
				Index:      len(segments) + 1,
				StartIndex: segStart,
				EndIndex:   i - 1,
				Count:      i - segStart,
			})
			segStart = i
			anchor = cues[i].Start
		}
	}

	segments = append(segments, Segment{
		Index:      len(segments) + 1,
		StartIndex: segStart,
		EndIndex:   n - 1,
		Count:      n - segStart,
	})

	return segments
}

// SliceBySegment returns the cues belonging to one segment. The returned
// slice aliases the input; callers must not mutate it.
func SliceBySegment(cues []Cue, seg Segment) []Cue {
	if seg.Count == 0 {
		return nil
	}
	return cues[seg.StartIndex : seg.EndIndex+1]
}
