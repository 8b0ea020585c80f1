package subtitle

import (
	"fmt"
	"strings"
)

// ParseSRT parses SubRip content into cues. The timestamp line drives the
// parse; numeric counter lines are ignored so files with missing or wrong
// counters still load.
func ParseSRT(content string) []Cue {
	// SRT and VTT differ only in the header and the millisecond separator,
	// both of which the VTT parser already tolerates.
	return ParseVTT(content)
}

// FormatSRT converts cues to SubRip with comma millisecond separators.
func FormatSRT(cues []Cue) string {
	var sb strings.Builder

	for i, cue := range cues {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", formatTimestamp(cue.Start, ","), formatTimestamp(cue.End, ",")))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
