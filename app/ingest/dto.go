package ingest

// Report aggregates the counters for one ingestion pass. It is the only
// output the scheduler sees.
type Report struct {
	Sports           int      `json:"sports"`
	Events           int      `json:"events"`
	Hydrated         int      `json:"hydrated"`
	Inserted         int      `json:"inserted"`
	Duplicates       int      `json:"duplicates"`
	CategoryUpgrades int      `json:"category_upgrades"`
	Errors           []string `json:"errors,omitempty"`
}
