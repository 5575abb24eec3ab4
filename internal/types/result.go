package types

import "fmt"

// Stage identifies where in the pipeline a product succeeded or failed.
type Stage string

const (
	StageMatch     Stage = "match"
	StageScrape    Stage = "scrape"
	StageTranslate Stage = "translate"
	StageWrite     Stage = "write"
	StageDone      Stage = "done"
)

// Result is the per-product outcome. Errors are carried as values and
// aggregated into a Summary instead of being raised and caught ad hoc.
type Result struct {
	Code  string
	URL   string
	Stage Stage
	Err   error
}

// OK reports whether the product completed the full pipeline.
func (r Result) OK() bool { return r.Err == nil && r.Stage == StageDone }

func (r Result) String() string {
	if r.OK() {
		return fmt.Sprintf("%s: ok", r.Code)
	}
	return fmt.Sprintf("%s: failed at %s: %v", r.Code, r.Stage, r.Err)
}

// Summary aggregates per-product results for the end-of-run report.
type Summary struct {
	TotalInSitemaps int
	Matched         int
	Processed       int
	Succeeded       int
	Failed          int
	Results         []Result
}

// Add records a result and updates the counters.
func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
	s.Processed++
	if r.OK() {
		s.Succeeded++
	} else {
		s.Failed++
	}
}

// Failures returns only the failed results.
func (s *Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}
