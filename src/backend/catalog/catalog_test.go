package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func lawyerIDs(lawyers []DirectoryLawyer) []int {
	ids := make([]int, len(lawyers))
	for i, l := range lawyers {
		ids[i] = l.ID
	}
	return ids
}

func caseIDs(cases []LegalCase) []string {
	ids := make([]string, len(cases))
	for i, c := range cases {
		ids[i] = c.ID
	}
	return ids
}

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := len(c.Laws("")); got != 50 {
		t.Errorf("expected 50 laws, got %d", got)
	}
	if got := len(c.Lawyers(LawyerFilter{})); got != 20 {
		t.Errorf("expected 20 lawyers, got %d", got)
	}
	if got := len(c.Cases(CaseFilter{})); got != 5 {
		t.Errorf("expected 5 cases, got %d", got)
	}
	if len(c.Courts()) != 7 || len(c.Categories()) != 10 {
		t.Errorf("unexpected option lists: %d courts, %d categories", len(c.Courts()), len(c.Categories()))
	}
}

func TestLaws_Search(t *testing.T) {
	c := MustLoad()

	got := c.Laws("marriage")
	var titles []string
	for _, l := range got {
		titles = append(titles, l.Title)
	}
	want := []string{"Hindu Marriage Act, 1955", "Special Marriage Act, 1954", "The Dowry Prohibition Act, 1961"}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Errorf("Laws(marriage) mismatch (-want +got):\n%s", diff)
	}

	if len(c.Laws("no such act")) != 0 {
		t.Error("expected no results")
	}
}

func TestLawyers_Filters(t *testing.T) {
	c := MustLoad()

	tests := []struct {
		name   string
		filter LawyerFilter
		want   []int
	}{
		{name: "family by experience", filter: LawyerFilter{Specialty: "family", Sort: SortExperience}, want: []int{16, 18, 20, 17, 19}},
		{name: "senior criminal", filter: LawyerFilter{Specialty: "criminal", Experience: "senior"}, want: []int{6, 8}},
		{name: "keyword matches keywords", filter: LawyerFilter{Keyword: "Property"}, want: []int{2, 14}},
		{name: "keyword matches name", filter: LawyerFilter{Specialty: FilterAll, Keyword: "wilson"}, want: []int{1}},
		{name: "junior corporate", filter: LawyerFilter{Specialty: "corporate", Experience: "junior"}, want: []int{4}},
		{name: "no match", filter: LawyerFilter{Keyword: "maritime"}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, lawyerIDs(c.Lawyers(tt.filter))); diff != "" {
				t.Errorf("Lawyers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLawyers_SortByName(t *testing.T) {
	got := MustLoad().Lawyers(LawyerFilter{Sort: SortName})
	if got[0].Name != "Aisha Robinson" || got[1].Name != "Andre Williams" {
		t.Errorf("unexpected name order: %s, %s", got[0].Name, got[1].Name)
	}
	if got[len(got)-1].Name != "Thomas Washington" {
		t.Errorf("unexpected last name %s", got[len(got)-1].Name)
	}
}

func TestLawyers_RelevanceRanksByHits(t *testing.T) {
	got := lawyerIDs(MustLoad().Lawyers(LawyerFilter{Keyword: "al", Sort: SortRelevance}))
	want := []int{5, 6, 7, 8, 12, 2, 4, 9, 10, 11, 14, 18, 19}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("relevance order mismatch (-want +got):\n%s", diff)
	}
}

func TestCases_Filters(t *testing.T) {
	c := MustLoad()

	tests := []struct {
		name   string
		filter CaseFilter
		want   []string
	}{
		{name: "category", filter: CaseFilter{Category: "Environmental Law"}, want: []string{"4", "5"}},
		{name: "year range", filter: CaseFilter{YearFrom: 1985, YearTo: 1996}, want: []string{"2", "4", "5"}},
		{name: "search tag", filter: CaseFilter{SearchQuery: "basic structure"}, want: []string{"1"}},
		{name: "search statute", filter: CaseFilter{SearchQuery: "air (prevention"}, want: []string{"5"}},
		{name: "search citation", filter: CaseFilter{SearchQuery: "AIR 1997"}, want: []string{"3", "5"}},
		{name: "court", filter: CaseFilter{Court: "High Court of Delhi"}, want: []string{}},
		{name: "combined", filter: CaseFilter{Category: "Constitutional Law", YearFrom: 1980, SearchQuery: "women"}, want: []string{"2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, caseIDs(c.Cases(tt.filter))); diff != "" {
				t.Errorf("Cases mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCaseLookupAndYear(t *testing.T) {
	c := MustLoad()
	lc, ok := c.Case("3")
	if !ok || lc.Title != "Vishaka v. State of Rajasthan" || lc.Year() != 1997 {
		t.Errorf("unexpected case: %+v", lc)
	}
	if _, ok := c.Case("99"); ok {
		t.Error("expected unknown case to be missing")
	}
	if (LegalCase{Date: "not a date"}).Year() != 0 {
		t.Error("expected 0 for malformed date")
	}
}

func TestParseYear(t *testing.T) {
	if ParseYear(" 1997 ") != 1997 || ParseYear("") != 0 || ParseYear("abc") != 0 {
		t.Error("unexpected ParseYear result")
	}
}

func TestSearchCaseLaw(t *testing.T) {
	c := MustLoad()

	start := time.Now()
	resp, err := c.SearchCaseLaw(context.Background(), "  reasonable accommodation ", SearchFilters{CaseType: "housing"}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("expected the search to wait for the delay")
	}
	if len(resp.Results) != 4 {
		t.Fatalf("expected exactly 4 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Relevance != 95 || resp.Results[3].Title != "Thompson v. Residential Properties Inc." {
		t.Errorf("unexpected results: %+v", resp.Results)
	}
	want := SearchFilters{Jurisdiction: "all", DateRange: "all", CaseType: "housing"}
	if resp.Filters != want || resp.Query != "reasonable accommodation" {
		t.Errorf("unexpected echo: %+v %q", resp.Filters, resp.Query)
	}
}

func TestSearchCaseLaw_EmptyQuery(t *testing.T) {
	_, err := MustLoad().SearchCaseLaw(context.Background(), "   ", SearchFilters{}, time.Hour)
	if !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestSearchCaseLaw_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MustLoad().SearchCaseLaw(ctx, "bail", SearchFilters{}, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
