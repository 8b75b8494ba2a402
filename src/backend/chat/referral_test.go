package chat

import (
	"math/rand"
	"strings"
	"testing"
)

func lawyerIDs(lawyers []Lawyer) []string {
	ids := make([]string, len(lawyers))
	for i, l := range lawyers {
		ids[i] = l.ID
	}
	return ids
}

func TestDetectLocation(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"lawyer in Mumbai", "Mumbai"},
		{"moving from delhi to PUNE", "Pune"},
		{"no city here", ""},
		{"kochi or chennai", "Kochi"},
	}
	for _, tt := range tests {
		if got := DetectLocation(tt.query); got != tt.want {
			t.Errorf("DetectLocation(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestDetectSpecialization(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"child custody dispute", "Family Law"},
		{"GST notice from the department", "Tax Law"},
		{"a complaint about a faulty product", "Consumer Law"},
		{"my company owes tax", "Corporate Law"},
		{"nothing relevant", ""},
	}
	for _, tt := range tests {
		if got := DetectSpecialization(tt.query); got != tt.want {
			t.Errorf("DetectSpecialization(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestFindRelevantLawyers(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "location only", query: "recommend a lawyer in Mumbai", want: []string{"L002"}},
		{name: "specialization only", query: "need a lawyer for my divorce", want: []string{"L001"}},
		{name: "location and specialization", query: "tax lawyer in Hyderabad", want: []string{"L007"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lawyerIDs(FindRelevantLawyers(SyntheticLawyers, tt.query, rnd))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("FindRelevantLawyers(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFindRelevantLawyers_CapsAtThree(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	got := FindRelevantLawyers(SyntheticLawyers, "find me a lawyer", rnd)
	if len(got) != 3 {
		t.Fatalf("expected 3 lawyers, got %d", len(got))
	}
	if got[0].ID != "L001" || got[2].ID != "L003" {
		t.Errorf("expected the first three lawyers in order, got %v", lawyerIDs(got))
	}
}

func TestFindRelevantLawyers_NoMatchShufflesDeterministically(t *testing.T) {
	query := "family lawyer in Chennai"

	first := FindRelevantLawyers(SyntheticLawyers, query, rand.New(rand.NewSource(42)))
	second := FindRelevantLawyers(SyntheticLawyers, query, rand.New(rand.NewSource(42)))

	if len(first) != 3 {
		t.Fatalf("expected 3 lawyers, got %d", len(first))
	}
	if strings.Join(lawyerIDs(first), ",") != strings.Join(lawyerIDs(second), ",") {
		t.Errorf("same seed produced different picks: %v vs %v", lawyerIDs(first), lawyerIDs(second))
	}

	seen := map[string]bool{}
	for _, l := range first {
		if seen[l.ID] {
			t.Errorf("duplicate lawyer %s in picks", l.ID)
		}
		seen[l.ID] = true
	}

	if SyntheticLawyers[0].ID != "L001" || SyntheticLawyers[7].ID != "L008" {
		t.Error("shuffle must not reorder the shared lawyer list")
	}
}

func TestFormatReferrals(t *testing.T) {
	text := FormatReferrals(SyntheticLawyers[:1], "  need a family lawyer  ")

	want := "Based on your case regarding \"need a family lawyer\", here are some legal professionals who may be able to assist you:\n\n" +
		"1. **Adv. Rajesh Kumar**\n" +
		"   Specialization: Family Law\n" +
		"   Experience: 15 years\n" +
		"   Location: Delhi\n" +
		"   Languages: Hindi, English\n" +
		"   Contact: +91-9876543210\n\n" +
		ReferralDisclaimer

	if text != want {
		t.Errorf("FormatReferrals mismatch:\n got: %q\nwant: %q", text, want)
	}
}
