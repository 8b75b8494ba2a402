package processor

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Markers the legal generators ask the model to write before the useful part
const (
	MarkerLegalResponse = "Legal response:"
	MarkerNoticeText    = "THE COMPLETE NOTICE TEXT:"
	MarkerRoadmapSteps  = "THE ROADMAP STEPS:"

	assistantPrefix = "Assistant: "
	citationBaseURL = "https://indiacode.nic.in/search/"
)

var (
	markdownSourceRegex = regexp.MustCompile(`Source:?\s*\[(.*?)\]\((.*?)\)`)
	simpleSourceRegex   = regexp.MustCompile(`(Source|Reference):?\s*(.*?)(?:\n|$)`)
	citationRegex       = regexp.MustCompile(`\[(Section|Chapter|Article|Rule)\s+(\d+[A-Za-z]?)\s+of\s+(.*?)\]`)
)

// Source is a reference attached to a bot reply
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LoggingConfig interface for logging configuration
type LoggingConfig interface {
	GetLogResponses() bool
	GetLogVerbose() bool
}

// ResponseProcessor turns raw generated text into a displayable reply
type ResponseProcessor struct {
	logging LoggingConfig
	logger  *zap.Logger
}

// NewResponseProcessor creates a new response processor
func NewResponseProcessor(logging LoggingConfig, logger *zap.Logger) *ResponseProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseProcessor{
		logging: logging,
		logger:  logger.Named("processor"),
	}
}

// ProcessReply keeps the text after the last "Assistant: " turn and pulls the
// sources out of it
func (rp *ResponseProcessor) ProcessReply(generated string) (string, []Source) {
	text := StripAssistantPrefix(generated)
	cleaned, sources := ExtractSources(text)

	if rp.logging != nil && rp.logging.GetLogResponses() {
		rp.logger.Info("processed reply", zap.Int("length", len(cleaned)), zap.Int("sources", len(sources)))
		if rp.logging.GetLogVerbose() {
			rp.logger.Debug("reply content", zap.String("generated", generated), zap.String("cleaned", cleaned))
		}
	}
	return cleaned, sources
}

// StripAssistantPrefix returns the part after the last "Assistant: ", or the
// whole text when the prefix is absent
func StripAssistantPrefix(text string) string {
	if idx := strings.LastIndex(text, assistantPrefix); idx >= 0 {
		return text[idx+len(assistantPrefix):]
	}
	return text
}

// ExtractSources finds markdown sources, falling back to plain Source:/Reference:
// lines, plus bracketed statute citations. Source lines are removed from the
// returned text; citations stay inline.
func ExtractSources(text string) (string, []Source) {
	var sources []Source
	cleaned := text

	for _, m := range markdownSourceRegex.FindAllStringSubmatch(text, -1) {
		sources = append(sources, Source{
			Title: strings.TrimSpace(m[1]),
			URL:   strings.TrimSpace(m[2]),
		})
		cleaned = strings.Replace(cleaned, m[0], "", 1)
	}

	if len(sources) == 0 {
		for _, m := range simpleSourceRegex.FindAllStringSubmatch(text, -1) {
			ref := strings.TrimSpace(m[2])
			if ref == "" {
				continue
			}
			sources = append(sources, simpleSource(ref))
			cleaned = strings.Replace(cleaned, strings.TrimRight(m[0], "\n"), "", 1)
		}
	}

	for _, m := range citationRegex.FindAllStringSubmatch(text, -1) {
		sources = append(sources, Source{
			Title: m[1] + " " + m[2] + " of " + m[3],
			URL:   citationBaseURL + url.PathEscape(m[3]),
		})
	}

	return strings.TrimSpace(cleaned), sources
}

func simpleSource(ref string) Source {
	if !strings.Contains(ref, "http") {
		return Source{Title: ref, URL: "#"}
	}
	parts := strings.Split(ref, " - ")
	if len(parts) > 1 {
		return Source{Title: strings.TrimSpace(parts[0]), URL: strings.TrimSpace(parts[1])}
	}
	return Source{Title: "Reference", URL: ref}
}

// ExtractAfterMarker returns the trimmed text after the first marker. Without a
// marker the echoed prompt is removed instead.
func ExtractAfterMarker(generated, marker, prompt string) string {
	if _, after, found := strings.Cut(generated, marker); found {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(strings.Replace(generated, strings.TrimSpace(prompt), "", 1))
}

// CollapseNewlines squeezes blank lines the way the chat answers are displayed
func CollapseNewlines(text string) string {
	text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	text = strings.ReplaceAll(text, "\n\n", "\n")
	return strings.TrimSpace(text)
}
