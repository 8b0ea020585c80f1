package subtitle

// Cue is a single timed subtitle entry. Times are in seconds.
type Cue struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
