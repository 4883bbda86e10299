package run

import (
	"reflect"
	"testing"
)

func TestNew_SortsAndReindexes(t *testing.T) {
	entries := []Entry{
		{QueryID: "q1", ParagraphID: "p1", Rank: 3, Score: 0.2, RunID: "r"},
		{QueryID: "q1", ParagraphID: "p2", Rank: 1, Score: 0.9, RunID: "r"},
		{QueryID: "q1", ParagraphID: "p3", Rank: 2, Score: 0.5, RunID: "r"},
	}
	rr := New("r", entries)

	ranking := rr.Ranking("q1")
	if len(ranking) != 3 {
		t.Fatalf("len = %d, want 3", len(ranking))
	}
	wantIDs := []string{"p2", "p3", "p1"}
	for i, want := range wantIDs {
		if ranking[i].ParagraphID != want {
			t.Errorf("ranking[%d] = %s, want %s", i, ranking[i].ParagraphID, want)
		}
		if ranking[i].Rank != i+1 {
			t.Errorf("ranking[%d].Rank = %d, want %d", i, ranking[i].Rank, i+1)
		}
	}
}

// Score ties keep file order: the sort is stable and no further tie-break is
// defined.
func TestNew_StableTies(t *testing.T) {
	entries := []Entry{
		{QueryID: "q1", ParagraphID: "first", Score: 0.5, RunID: "r"},
		{QueryID: "q1", ParagraphID: "second", Score: 0.5, RunID: "r"},
		{QueryID: "q1", ParagraphID: "third", Score: 0.5, RunID: "r"},
	}
	ranking := New("r", entries).Ranking("q1")
	for i, want := range []string{"first", "second", "third"} {
		if ranking[i].ParagraphID != want {
			t.Errorf("ranking[%d] = %s, want %s", i, ranking[i].ParagraphID, want)
		}
	}
}

func TestNew_SkipsForeignRuns(t *testing.T) {
	entries := []Entry{
		{QueryID: "q1", ParagraphID: "p1", Score: 1, RunID: "mine"},
		{QueryID: "q1", ParagraphID: "p2", Score: 2, RunID: "other"},
	}
	rr := New("mine", entries)
	if got := rr.Ranking("q1"); len(got) != 1 || got[0].ParagraphID != "p1" {
		t.Errorf("ranking = %v, want just p1", got)
	}
}

func TestGroup(t *testing.T) {
	entries := []Entry{
		{QueryID: "q1", ParagraphID: "p1", Score: 1, RunID: "b"},
		{QueryID: "q1", ParagraphID: "p2", Score: 1, RunID: "a"},
		{QueryID: "q2", ParagraphID: "p3", Score: 1, RunID: "b"},
	}
	runs := Group(entries)
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	// Encounter order of run ids, not alphabetical.
	if runs[0].RunID() != "b" || runs[1].RunID() != "a" {
		t.Errorf("run order = %s, %s, want b, a", runs[0].RunID(), runs[1].RunID())
	}
	if runs[0].Len() != 2 || runs[1].Len() != 1 {
		t.Errorf("query counts = %d, %d", runs[0].Len(), runs[1].Len())
	}
	if got := runs[0].Queries(); !reflect.DeepEqual(got, []string{"q1", "q2"}) {
		t.Errorf("Queries = %v", got)
	}
}

func TestRanking_UnknownQuery(t *testing.T) {
	rr := New("r", nil)
	if rr.Ranking("missing") != nil {
		t.Error("unknown query should yield nil ranking")
	}
}
