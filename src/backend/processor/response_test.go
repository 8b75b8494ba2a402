package processor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testLogging struct {
	responses bool
	verbose   bool
}

func (l testLogging) GetLogResponses() bool { return l.responses }
func (l testLogging) GetLogVerbose() bool   { return l.verbose }

func TestStripAssistantPrefix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no prefix", in: "Plain answer", want: "Plain answer"},
		{name: "single turn", in: "Human: hi\nAssistant: Hello", want: "Hello"},
		{name: "uses last occurrence", in: "Assistant: old\nHuman: q\nAssistant: new answer", want: "new answer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripAssistantPrefix(tt.in); got != tt.want {
				t.Errorf("StripAssistantPrefix(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractSources(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantText    string
		wantSources []Source
	}{
		{
			name:     "markdown source",
			in:       "Dowry demands are illegal.\nSource: [Dowry Prohibition Act](https://indiacode.nic.in/dowry)",
			wantText: "Dowry demands are illegal.",
			wantSources: []Source{
				{Title: "Dowry Prohibition Act", URL: "https://indiacode.nic.in/dowry"},
			},
		},
		{
			name:     "plain source with url",
			in:       "You may approach the consumer forum.\nSource: Consumer Protection Act - https://example.org/cpa",
			wantText: "You may approach the consumer forum.",
			wantSources: []Source{
				{Title: "Consumer Protection Act", URL: "https://example.org/cpa"},
			},
		},
		{
			name:     "plain reference without url",
			in:       "Bail is the rule.\nReference: Code of Criminal Procedure",
			wantText: "Bail is the rule.",
			wantSources: []Source{
				{Title: "Code of Criminal Procedure", URL: "#"},
			},
		},
		{
			name:     "bare url",
			in:       "See the portal.\nSource: https://edaakhil.nic.in",
			wantText: "See the portal.",
			wantSources: []Source{
				{Title: "Reference", URL: "https://edaakhil.nic.in"},
			},
		},
		{
			name:     "citation stays inline",
			in:       "Cruelty is covered by [Section 498A of Indian Penal Code].",
			wantText: "Cruelty is covered by [Section 498A of Indian Penal Code].",
			wantSources: []Source{
				{Title: "Section 498A of Indian Penal Code", URL: "https://indiacode.nic.in/search/Indian%20Penal%20Code"},
			},
		},
		{
			name:        "no sources",
			in:          "  Just an answer.  ",
			wantText:    "Just an answer.",
			wantSources: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotSources := ExtractSources(tt.in)
			if gotText != tt.wantText {
				t.Errorf("text = %q, want %q", gotText, tt.wantText)
			}
			if diff := cmp.Diff(tt.wantSources, gotSources); diff != "" {
				t.Errorf("sources mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProcessReply(t *testing.T) {
	rp := NewResponseProcessor(testLogging{responses: true, verbose: true}, nil)

	text, sources := rp.ProcessReply("Human: what is FIR?\nAssistant: An FIR is the first information report.\nSource: [CrPC Section 154](https://indiacode.nic.in/crpc)")
	if text != "An FIR is the first information report." {
		t.Errorf("unexpected text %q", text)
	}
	if len(sources) != 1 || sources[0].Title != "CrPC Section 154" {
		t.Errorf("unexpected sources %+v", sources)
	}
}

func TestExtractAfterMarker(t *testing.T) {
	tests := []struct {
		name      string
		generated string
		marker    string
		prompt    string
		want      string
	}{
		{
			name:      "marker present",
			generated: "prompt text\nTHE ROADMAP STEPS:\n1. File\n2. Wait",
			marker:    MarkerRoadmapSteps,
			prompt:    "prompt text",
			want:      "1. File\n2. Wait",
		},
		{
			name:      "only first marker splits",
			generated: "Legal response: a Legal response: b",
			marker:    MarkerLegalResponse,
			want:      "a Legal response: b",
		},
		{
			name:      "marker missing removes prompt",
			generated: "  Draft a notice\nNOTICE body  ",
			marker:    MarkerNoticeText,
			prompt:    "Draft a notice\n",
			want:      "NOTICE body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractAfterMarker(tt.generated, tt.marker, tt.prompt); got != tt.want {
				t.Errorf("ExtractAfterMarker() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollapseNewlines(t *testing.T) {
	got := CollapseNewlines("a\n\n\nb\n\nc\n")
	if got != "a\nb\nc" {
		t.Errorf("CollapseNewlines() = %q", got)
	}
}
