package subtitle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Export formats supported by the download endpoint.
const (
	FormatNameSRT  = "srt"
	FormatNameVTT  = "vtt"
	FormatNameJSON = "json"
	FormatNameTXT  = "txt"
)

// FormatTXT renders only the cue text, one cue per line, for the plain-text
// download.
func FormatTXT(cues []Cue) string {
	var sb strings.Builder
	for _, cue := range cues {
		sb.WriteString(strings.ReplaceAll(cue.Text, "\n", " "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Export renders cues in the requested download format and reports the
// matching Content-Type.
func Export(cues []Cue, format string) (content string, contentType string, err error) {
	switch strings.ToLower(format) {
	case FormatNameSRT:
		return FormatSRT(cues), "application/x-subrip; charset=utf-8", nil
	case FormatNameVTT:
		return FormatVTT(cues), "text/vtt; charset=utf-8", nil
	case FormatNameJSON:
		data, err := json.MarshalIndent(cues, "", "  ")
		if err != nil {
			return "", "", err
		}
		return string(data), "application/json; charset=utf-8", nil
	case FormatNameTXT:
		return FormatTXT(cues), "text/plain; charset=utf-8", nil
	default:
		return "", "", fmt.Errorf("unknown export format: %s", format)
	}
}
