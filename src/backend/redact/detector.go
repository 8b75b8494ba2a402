package redact

import (
	"context"
	"regexp"
	"sort"
)

const DetectorNameRegex = "regex_detector"

// Entity represents a detected piece of personal data
type Entity struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	StartPos   int     `json:"start_pos"`
	EndPos     int     `json:"end_pos"`
	Confidence float64 `json:"confidence"`
}

type Detector interface {
	GetName() string
	Detect(ctx context.Context, text string) ([]Entity, error)
}

// IndianPIIPatterns covers the identifiers users most often paste into a legal query
var IndianPIIPatterns = map[string]string{
	"EMAIL":      `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
	"PHONE":      `(?:\+91[\s-]?|\b)[6-9]\d{4}[\s-]?\d{5}\b`,
	"AADHAAR":    `\b[2-9]\d{3}[\s-]?\d{4}[\s-]?\d{4}\b`,
	"PAN":        `\b[A-Z]{5}[0-9]{4}[A-Z]\b`,
	"ACCOUNTNUM": `(?i)\b(?:account|acct|a/c)(?:\s*(?:no\.?|number))?[\s#:.-]*\d{9,18}\b`,
}

// RegexDetector finds entities using regular expressions
type RegexDetector struct {
	labels   []string
	patterns map[string]*regexp.Regexp
}

func NewRegexDetector(patterns map[string]string) *RegexDetector {
	regexMap := make(map[string]*regexp.Regexp, len(patterns))
	labels := make([]string, 0, len(patterns))
	for label, pattern := range patterns {
		regexMap[label] = regexp.MustCompile(pattern)
		labels = append(labels, label)
	}
	sort.Strings(labels)

	return &RegexDetector{
		labels:   labels,
		patterns: regexMap,
	}
}

// GetName returns the name of this detector
func (r *RegexDetector) GetName() string {
	return DetectorNameRegex
}

// Detect returns non-overlapping entities ordered by position.
// When two matches overlap, the one starting first wins; ties go to the longer match.
func (r *RegexDetector) Detect(ctx context.Context, text string) ([]Entity, error) {
	var candidates []Entity

	for _, label := range r.labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, match := range r.patterns[label].FindAllStringIndex(text, -1) {
			candidates = append(candidates, Entity{
				Text:       text[match[0]:match[1]],
				Label:      label,
				StartPos:   match[0],
				EndPos:     match[1],
				Confidence: 1.0,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].StartPos != candidates[j].StartPos {
			return candidates[i].StartPos < candidates[j].StartPos
		}
		return candidates[i].EndPos > candidates[j].EndPos
	})

	entities := make([]Entity, 0, len(candidates))
	lastEnd := -1
	for _, c := range candidates {
		if c.StartPos < lastEnd {
			continue
		}
		entities = append(entities, c)
		lastEnd = c.EndPos
	}
	return entities, nil
}
