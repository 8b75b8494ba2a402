package chat

import (
	"fmt"
	"math/rand"
	"strings"
)

const maxReferrals = 3

// ReferralDisclaimer closes every referral reply
const ReferralDisclaimer = "DISCLAIMER: These are synthetic lawyer profiles for demonstration purposes only. " +
	"In a real application, you would provide actual verified lawyer information. " +
	"Always verify credentials before engaging legal services."

// Lawyer is a referral profile
type Lawyer struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Specialization string   `json:"specialization"`
	Experience     int      `json:"experience"`
	Location       string   `json:"location"`
	Languages      []string `json:"languages"`
}

// SyntheticLawyers is the demonstration referral database
var SyntheticLawyers = []Lawyer{
	{ID: "L001", Name: "Adv. Rajesh Kumar", Phone: "+91-9876543210", Specialization: "Family Law", Experience: 15, Location: "Delhi", Languages: []string{"Hindi", "English"}},
	{ID: "L002", Name: "Adv. Priya Sharma", Phone: "+91-9876543211", Specialization: "Criminal Law", Experience: 12, Location: "Mumbai", Languages: []string{"Hindi", "English", "Marathi"}},
	{ID: "L003", Name: "Adv. Sunil Verma", Phone: "+91-9876543212", Specialization: "Property Law", Experience: 20, Location: "Bangalore", Languages: []string{"English", "Kannada"}},
	{ID: "L004", Name: "Adv. Meena Patel", Phone: "+91-9876543213", Specialization: "Corporate Law", Experience: 10, Location: "Ahmedabad", Languages: []string{"Gujarati", "Hindi", "English"}},
	{ID: "L005", Name: "Adv. Arun Singh", Phone: "+91-9876543214", Specialization: "Labor Law", Experience: 8, Location: "Kolkata", Languages: []string{"Bengali", "Hindi", "English"}},
	{ID: "L006", Name: "Adv. Lakshmi Nair", Phone: "+91-9876543215", Specialization: "Consumer Law", Experience: 9, Location: "Chennai", Languages: []string{"Tamil", "English"}},
	{ID: "L007", Name: "Adv. Vikram Malhotra", Phone: "+91-9876543216", Specialization: "Tax Law", Experience: 14, Location: "Hyderabad", Languages: []string{"Telugu", "Hindi", "English"}},
	{ID: "L008", Name: "Adv. Fatima Begum", Phone: "+91-9876543217", Specialization: "Civil Law", Experience: 11, Location: "Lucknow", Languages: []string{"Urdu", "Hindi", "English"}},
}

var indianCities = []string{
	"delhi", "mumbai", "bangalore", "kolkata", "chennai", "hyderabad",
	"ahmedabad", "pune", "lucknow", "jaipur", "chandigarh", "kochi",
}

// Ordered: the first keyword found decides the specialization
var specializationKeywords = []struct {
	keyword string
	area    string
}{
	{"family", "Family Law"},
	{"divorce", "Family Law"},
	{"custody", "Family Law"},
	{"criminal", "Criminal Law"},
	{"crime", "Criminal Law"},
	{"fir", "Criminal Law"},
	{"property", "Property Law"},
	{"real estate", "Property Law"},
	{"land", "Property Law"},
	{"corporate", "Corporate Law"},
	{"business", "Corporate Law"},
	{"company", "Corporate Law"},
	{"labor", "Labor Law"},
	{"worker", "Labor Law"},
	{"employment", "Labor Law"},
	{"consumer", "Consumer Law"},
	{"complaint", "Consumer Law"},
	{"product", "Consumer Law"},
	{"tax", "Tax Law"},
	{"gst", "Tax Law"},
	{"income tax", "Tax Law"},
	{"civil", "Civil Law"},
}

// DetectLocation returns the last listed city mentioned in the query, title-cased
func DetectLocation(query string) string {
	lower := strings.ToLower(query)
	location := ""
	for _, city := range indianCities {
		if strings.Contains(lower, city) {
			location = strings.ToUpper(city[:1]) + city[1:]
		}
	}
	return location
}

// DetectSpecialization returns the practice area of the first matching keyword
func DetectSpecialization(query string) string {
	lower := strings.ToLower(query)
	for _, sk := range specializationKeywords {
		if strings.Contains(lower, sk.keyword) {
			return sk.area
		}
	}
	return ""
}

// FindRelevantLawyers filters lawyers by the location and specialization
// mentioned in query and returns up to three. With no match it returns three
// lawyers picked by shuffling a copy of the list with rnd.
func FindRelevantLawyers(lawyers []Lawyer, query string, rnd *rand.Rand) []Lawyer {
	location := DetectLocation(query)
	specialization := DetectSpecialization(query)

	var filtered []Lawyer
	for _, l := range lawyers {
		if location != "" && !strings.EqualFold(l.Location, location) {
			continue
		}
		if specialization != "" && l.Specialization != specialization {
			continue
		}
		filtered = append(filtered, l)
	}

	if len(filtered) == 0 {
		shuffled := make([]Lawyer, len(lawyers))
		copy(shuffled, lawyers)
		rnd.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		filtered = shuffled
	}

	if len(filtered) > maxReferrals {
		filtered = filtered[:maxReferrals]
	}
	return filtered
}

// FormatReferrals renders the numbered referral reply
func FormatReferrals(lawyers []Lawyer, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on your case regarding \"%s\", here are some legal professionals who may be able to assist you:\n\n", strings.TrimSpace(query))

	for i, l := range lawyers {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, l.Name)
		fmt.Fprintf(&b, "   Specialization: %s\n", l.Specialization)
		fmt.Fprintf(&b, "   Experience: %d years\n", l.Experience)
		fmt.Fprintf(&b, "   Location: %s\n", l.Location)
		fmt.Fprintf(&b, "   Languages: %s\n", strings.Join(l.Languages, ", "))
		fmt.Fprintf(&b, "   Contact: %s\n\n", l.Phone)
	}

	b.WriteString(ReferralDisclaimer)
	return b.String()
}
