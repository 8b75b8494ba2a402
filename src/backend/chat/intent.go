// Package chat implements the legal assistant conversation: intent
// classification, prompt composition, lawyer referrals and reply generation.
package chat

import "strings"

// Intent is the kind of help a user message asks for
type Intent string

const (
	IntentGeneral  Intent = "general"
	IntentNotice   Intent = "notice"
	IntentRoadmap  Intent = "roadmap"
	IntentReferral Intent = "referral"
)

// DocumentType tags bot replies that are more than a plain answer
type DocumentType string

const (
	DocumentNone           DocumentType = ""
	DocumentLegalNotice    DocumentType = "legal-notice"
	DocumentRoadmap        DocumentType = "roadmap"
	DocumentLawyerReferral DocumentType = "lawyer-referral"
)

var (
	noticeVerbs = []string{"draft", "create", "write", "prepare"}
	noticeNouns = []string{"notice", "legal document", "letter", "complaint"}

	roadmapWords = []string{"procedure", "process", "steps", "how to", "roadmap", "guide"}
	roadmapVenue = []string{"file", "court", "legal", "case", "complaint", "petition"}

	referralRoles    = []string{"lawyer", "attorney", "advocate", "legal counsel", "legal advice"}
	referralRequests = []string{"recommend", "refer", "find", "need", "contact", "who"}
)

// Classify assigns exactly one intent using case-insensitive substring
// matching. Rules are checked notice, roadmap, referral; the first match wins.
func Classify(message string) Intent {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, noticeVerbs) && containsAny(lower, noticeNouns):
		return IntentNotice
	case containsAny(lower, roadmapWords) && containsAny(lower, roadmapVenue):
		return IntentRoadmap
	case containsAny(lower, referralRoles) && containsAny(lower, referralRequests):
		return IntentReferral
	default:
		return IntentGeneral
	}
}

// DocumentType returns the document tag for replies to this intent
func (i Intent) DocumentType() DocumentType {
	switch i {
	case IntentNotice:
		return DocumentLegalNotice
	case IntentRoadmap:
		return DocumentRoadmap
	case IntentReferral:
		return DocumentLawyerReferral
	default:
		return DocumentNone
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
