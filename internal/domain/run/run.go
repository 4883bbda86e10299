// Package run holds ranked per-query candidate lists parsed from retrieval
// run files.
package run

import "sort"

// Entry is one scored candidate: a query, a paragraph, and its rank and score
// within one run.
type Entry struct {
	QueryID     string
	ParagraphID string
	Rank        int
	Score       float64
	RunID       string
}

// Ranking is the candidate list of one query, best first.
type Ranking []Entry

// RankedRun groups the entries of a single run by query id, each group sorted
// by descending score with ranks reindexed 1..N. Score ties keep the original
// file order (stable sort); no tie-break rule beyond that is defined.
type RankedRun struct {
	runID   string
	byQuery map[string]Ranking
	queries []string // first-seen order
}

// New groups, sorts and reindexes the entries of one run. All entries are
// assumed to share runID; entries of foreign runs are skipped.
func New(runID string, entries []Entry) *RankedRun {
	r := &RankedRun{
		runID:   runID,
		byQuery: make(map[string]Ranking),
	}
	for _, e := range entries {
		if e.RunID != runID {
			continue
		}
		if _, seen := r.byQuery[e.QueryID]; !seen {
			r.queries = append(r.queries, e.QueryID)
		}
		r.byQuery[e.QueryID] = append(r.byQuery[e.QueryID], e)
	}
	for qid, ranking := range r.byQuery {
		sort.SliceStable(ranking, func(i, j int) bool {
			return ranking[i].Score > ranking[j].Score
		})
		for i := range ranking {
			ranking[i].Rank = i + 1
		}
		r.byQuery[qid] = ranking
	}
	return r
}

// Group partitions entries by run id, preserving encounter order of runs, and
// builds one RankedRun per run id.
func Group(entries []Entry) []*RankedRun {
	var order []string
	byRun := make(map[string][]Entry)
	for _, e := range entries {
		if _, seen := byRun[e.RunID]; !seen {
			order = append(order, e.RunID)
		}
		byRun[e.RunID] = append(byRun[e.RunID], e)
	}
	runs := make([]*RankedRun, 0, len(order))
	for _, id := range order {
		runs = append(runs, New(id, byRun[id]))
	}
	return runs
}

// RunID returns the run identifier.
func (r *RankedRun) RunID() string {
	return r.runID
}

// Queries returns the query ids in first-seen order.
func (r *RankedRun) Queries() []string {
	return r.queries
}

// Ranking returns the sorted candidate list for a query, nil when the run has
// no entries for it.
func (r *RankedRun) Ranking(queryID string) Ranking {
	return r.byQuery[queryID]
}

// Len returns the number of queries with at least one candidate.
func (r *RankedRun) Len() int {
	return len(r.byQuery)
}
