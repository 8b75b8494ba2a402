package legal

import (
	"regexp"
	"strings"
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}`),      // 12/05/2023
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),      // 2023-05-12
	regexp.MustCompile(`\d{1,2} [A-Za-z]+ \d{4}`), // 12 May 2023
}

var legalTerms = []string{"plaintiff", "defendant", "jurisdiction", "affidavit", "testimony"}

// DocumentInfo is the structured data pulled out of a document's text
type DocumentInfo struct {
	Dates      []string `json:"dates"`
	LegalTerms []string `json:"legal_terms"`
	WordCount  int      `json:"word_count"`
}

// ParseDocument extracts dates, common legal terms and the word count.
// Dates are grouped by format in the order the formats are listed.
func ParseDocument(text string) DocumentInfo {
	info := DocumentInfo{
		Dates:      []string{},
		LegalTerms: []string{},
		WordCount:  len(strings.Fields(text)),
	}

	for _, re := range datePatterns {
		info.Dates = append(info.Dates, re.FindAllString(text, -1)...)
	}

	lower := strings.ToLower(text)
	for _, term := range legalTerms {
		if strings.Contains(lower, term) {
			info.LegalTerms = append(info.LegalTerms, term)
		}
	}

	return info
}
