package results

import "fmt"

// State distinguishes a search in flight from its outcomes.
type State int

const (
	// StateFetching means no rows were received yet.
	StateFetching State = iota
	StateEmpty
	StatePopulated
	// StateFailed means the fetch failed. Rows stay nil.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StateOf classifies rows: nil is fetching, empty is no results.
func StateOf(rows []Row, err error) State {
	switch {
	case err != nil:
		return StateFailed
	case rows == nil:
		return StateFetching
	case len(rows) == 0:
		return StateEmpty
	}
	return StatePopulated
}

// Title is the heading shown above the results.
func Title(rows []Row, err error) string {
	switch StateOf(rows, err) {
	case StateFailed:
		return "Search failed"
	case StateFetching:
		return "Fetching results"
	case StateEmpty:
		return "No results"
	}
	if len(rows) == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", len(rows))
}
