package resolve

// Report aggregates the counters for one resolution pass.
type Report struct {
	Scanned int      `json:"scanned"`
	Yes     int      `json:"yes"`
	No      int      `json:"no"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
