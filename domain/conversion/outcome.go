package conversion

import "time"

// OutcomeKind is the terminal state of one work item
type OutcomeKind int

const (
	Converted OutcomeKind = iota
	Skipped
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Converted:
		return "converted"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// SkipReason explains a Skipped outcome
type SkipReason string

// AlreadyExists means the destination was present and overwrite was off
const AlreadyExists SkipReason = "already exists"

// Outcome records what happened to one WorkItem
type Outcome struct {
	Source      string
	Destination string
	Kind        OutcomeKind
	Reason      SkipReason // set when Kind == Skipped
	Diagnostic  string     // set when Kind == Failed
}

// Summary aggregates the outcomes of a run
type Summary struct {
	Total     int // items discovered
	Converted int
	Failed    int
	Skipped   int
	Stopped   bool
	Outcomes  []Outcome
	Started   time.Time
	Elapsed   time.Duration
}

// Record adds an outcome to the summary counters
func (s *Summary) Record(o Outcome) {
	switch o.Kind {
	case Converted:
		s.Converted++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Processed returns the number of items that produced an outcome
func (s Summary) Processed() int {
	return s.Converted + s.Failed + s.Skipped
}

// ConvertedPaths returns destinations of successfully converted items
func (s Summary) ConvertedPaths() []string {
	var paths []string
	for _, o := range s.Outcomes {
		if o.Kind == Converted {
			paths = append(paths, o.Destination)
		}
	}
	return paths
}
