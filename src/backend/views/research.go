package views

import (
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/hannes/kanoon/src/backend/analysis"
	"github.com/hannes/kanoon/src/backend/catalog"
)

// DocumentAnalysisState is what the analysis page shows. Without a selected
// file the Analyze button is disabled.
type DocumentAnalysisState struct {
	FileName string
	Report   *analysis.Report
	Error    string
}

func DocumentAnalysisPage(p Page, s DocumentAnalysisState) g.Node {
	var body g.Node
	if s.Report != nil {
		body = analysisReport(*s.Report)
	} else {
		body = uploadForm(s)
	}

	return Layout(p,
		container(
			pageHeader("Legal Document Analysis", "Upload a legal document and receive a plain-language explanation of its key terms and potential concerns."),
			Div(Class("max-w-3xl mx-auto bg-white rounded-xl shadow-md p-8"),
				errorBox(s.Error),
				body,
			),
			howItWorks(),
		),
	)
}

func uploadForm(s DocumentAnalysisState) g.Node {
	return Form(
		Method("post"), Action("/document-analysis"), EncType("multipart/form-data"),
		Class("text-center"),
		H3(Class("text-lg font-medium text-gray-900 mb-2"), g.Text("Upload your legal document")),
		P(Class("text-sm text-gray-500 mb-4"), g.Text("Supports PDF, DOCX, and TXT files up to 10MB")),
		Input(
			Type("file"), ID("file"), Name("file"), Accept(".pdf,.docx,.txt"),
			Class("block w-full border rounded p-2 mb-4"),
			g.Attr("onchange", "document.getElementById('analyze').disabled = this.files.length === 0"),
		),
		g.If(s.FileName != "", P(Class("selected-file text-sm mb-4"), g.Text(s.FileName))),
		Button(
			Type("submit"), ID("analyze"),
			Class("px-6 py-2 bg-blue-600 text-white rounded-lg disabled:opacity-50"),
			g.If(s.FileName == "", Disabled()),
			g.Text("Analyze Document"),
		),
		Ul(Class("analysis-steps hidden mt-6 text-left text-sm"), g.Map(analysis.Steps, func(step string) g.Node {
			return Li(g.Text(step))
		})),
	)
}

func analysisReport(r analysis.Report) g.Node {
	return Div(Class("analysis-report"),
		H3(Class("text-xl font-medium text-gray-900"), g.Text("Analysis Complete")),
		P(Class("text-sm text-gray-500"), g.Textf("%s (%.1f KB, %s)", r.Document.Name, r.Document.SizeKB, r.Document.Type)),
		H4(Class("font-medium text-gray-900 mt-6 mb-3"), g.Text("Document Summary")),
		P(Class("whitespace-pre-line text-gray-700"), g.Text(r.Summary)),
		when(r.Parsed != nil, func() g.Node { return parsedInfo(r) }),
		Div(Class("bg-yellow-50 border-l-4 border-yellow-400 p-4 mt-6 text-sm text-yellow-700"),
			Strong(g.Text("Disclaimer: ")), g.Text(r.Disclaimer),
		),
		A(Href("/document-analysis"), Class("inline-block mt-6 px-4 py-2 bg-blue-600 text-white rounded-lg"), g.Text("Analyze Another Document")),
	)
}

func parsedInfo(r analysis.Report) g.Node {
	return Div(Class("parsed mt-6 text-sm"),
		P(g.Textf("Word count: %d", r.Parsed.WordCount)),
		g.If(len(r.Parsed.Dates) > 0, P(g.Text("Dates: "+strings.Join(r.Parsed.Dates, ", ")))),
		g.If(len(r.Parsed.LegalTerms) > 0, P(g.Text("Legal terms: "+strings.Join(r.Parsed.LegalTerms, ", ")))),
	)
}

func howItWorks() g.Node {
	steps := [][2]string{
		{"Upload Document", "Upload any legal document such as leases, contracts, or court forms."},
		{"AI Analysis", "Our AI identifies key terms, obligations, and potential issues in the document."},
		{"Plain Language Results", "Receive an easy-to-understand summary with important points highlighted."},
	}
	return Div(Class("max-w-3xl mx-auto mt-12"),
		H2(Class("text-2xl font-bold text-gray-900 mb-4"), g.Text("How It Works")),
		Div(Class("grid grid-cols-1 md:grid-cols-3 gap-6"), g.Map(steps, func(s [2]string) g.Node {
			return Div(Class("bg-white p-6 rounded-lg shadow"),
				H3(Class("font-bold mb-2"), g.Text(s[0])),
				P(Class("text-gray-600"), g.Text(s[1])),
			)
		})),
	)
}

var (
	jurisdictionOptions = [][2]string{{"all", "All Jurisdictions"}, {"federal", "Federal"}, {"state", "State"}, {"california", "California"}, {"new-york", "New York"}, {"texas", "Texas"}}
	dateRangeOptions    = [][2]string{{"all", "All Time"}, {"last-year", "Last Year"}, {"last-5-years", "Last 5 Years"}, {"last-10-years", "Last 10 Years"}, {"custom", "Custom Range"}}
	caseTypeOptions     = [][2]string{{"all", "All Types"}, {"housing", "Housing"}, {"employment", "Employment"}, {"civil-rights", "Civil Rights"}, {"consumer", "Consumer Protection"}, {"family", "Family Law"}}
)

// CaseLawState is the case-law search form plus any results
type CaseLawState struct {
	Query    string
	Filters  catalog.SearchFilters
	Response *catalog.SearchResponse
	Error    string
}

func CaseLawPage(p Page, s CaseLawState) g.Node {
	return Layout(p,
		container(
			pageHeader("Case Law & Statute Retrieval", "Search for relevant case law and statutes to support your legal research."),
			Form(Method("post"), Action("/case-law"), Class("max-w-4xl mx-auto bg-white rounded-xl shadow-md p-6 mb-8"),
				errorBox(s.Error),
				Div(Class("flex gap-2 mb-4"),
					Input(Type("text"), Name("query"), Value(s.Query), Class("flex-grow border rounded-md p-2"),
						Placeholder("E.g., reasonable accommodation fair housing disability")),
					Button(Type("submit"), Class("px-6 py-2 bg-purple-600 text-white rounded-md"), g.Text("Search")),
				),
				Div(Class("grid grid-cols-1 md:grid-cols-3 gap-4"),
					selectField("Jurisdiction", "jurisdiction", s.Filters.Jurisdiction, jurisdictionOptions),
					selectField("Date Range", "date_range", s.Filters.DateRange, dateRangeOptions),
					selectField("Case Type", "case_type", s.Filters.CaseType, caseTypeOptions),
				),
			),
			when(s.Response != nil, func() g.Node { return caseLawResults(*s.Response) }),
		),
	)
}

func caseLawResults(resp catalog.SearchResponse) g.Node {
	return Div(Class("max-w-4xl mx-auto"),
		H2(Class("text-lg font-medium text-gray-900 mb-4"), g.Textf("%d results for %q", len(resp.Results), resp.Query)),
		g.Map(resp.Results, func(r catalog.CaseLawResult) g.Node {
			return Div(Class("case-result bg-white rounded-lg shadow p-6 mb-4"),
				H3(Class("text-lg font-semibold text-purple-800"), g.Text(r.Title)),
				P(Class("text-sm text-gray-500"), g.Textf("%s · %s · %s", r.Citation, r.Court, r.Date)),
				P(Class("mt-2 text-gray-700"), g.Text(r.Snippet)),
				Span(Class("relevance text-xs font-medium"), g.Textf("%d%% relevant", r.Relevance)),
			)
		}),
	)
}

// CaseLibraryState is the case library filter form, the matching cases
// and the option lists
type CaseLibraryState struct {
	Filter     catalog.CaseFilter
	Cases      []catalog.LegalCase
	Courts     []string
	Categories []string
	Selected   *catalog.LegalCase
}

func CaseLibraryPage(p Page, s CaseLibraryState) g.Node {
	optionsWithAll := func(all string, items []string) [][2]string {
		opts := [][2]string{{"", all}}
		for _, item := range items {
			opts = append(opts, [2]string{item, item})
		}
		return opts
	}
	year := func(y int) string {
		if y == 0 {
			return ""
		}
		return strconv.Itoa(y)
	}

	return Layout(p,
		container(
			H1(Class("text-2xl font-bold mb-6"), g.Text("Indian Legal Case Library")),
			when(s.Selected != nil, func() g.Node { return caseDetail(*s.Selected) }),
			Div(Class("grid grid-cols-1 md:grid-cols-4 gap-6"),
				Form(Method("get"), Action("/legal-case-library"), Class("bg-white rounded-lg shadow p-4 space-y-4"),
					H2(Class("text-lg font-bold"), g.Text("Filters")),
					Div(
						Label(For("q"), Class("block text-gray-700 mb-1"), g.Text("Search")),
						Input(Type("text"), ID("q"), Name("q"), Value(s.Filter.SearchQuery), Placeholder("Search cases, tags, statutes..."), Class("w-full border rounded-md p-2")),
					),
					selectField("Court", "court", s.Filter.Court, optionsWithAll("All Courts", s.Courts)),
					selectField("Category", "category", s.Filter.Category, optionsWithAll("All Categories", s.Categories)),
					Div(Class("flex gap-2"),
						Input(Type("number"), Name("year_from"), Value(year(s.Filter.YearFrom)), Placeholder("From"), Class("w-1/2 border rounded-md p-2")),
						Input(Type("number"), Name("year_to"), Value(year(s.Filter.YearTo)), Placeholder("To"), Class("w-1/2 border rounded-md p-2")),
					),
					Button(Type("submit"), Class("w-full px-4 py-2 bg-indigo-700 text-white rounded-md"), g.Text("Apply Filters")),
				),
				Div(Class("md:col-span-3"),
					H2(Class("text-lg font-bold mb-4"), g.Textf("Legal Cases (%d)", len(s.Cases))),
					g.If(len(s.Cases) == 0, P(Class("text-gray-600"), g.Text("No cases match your filters. Try adjusting your search criteria."))),
					g.Map(s.Cases, func(lc catalog.LegalCase) g.Node {
						return A(Href("/legal-case-library?case="+lc.ID), Class("legal-case block bg-white rounded-lg shadow p-4 mb-4"),
							H3(Class("text-xl font-semibold mb-2 text-black"), g.Text(lc.Title)),
							P(Class("text-sm text-gray-500"), g.Textf("%s · %s · %s", lc.Citation, lc.Court, lc.Date)),
							P(Class("mt-2 text-gray-700"), g.Text(lc.Summary)),
						)
					}),
				),
			),
		),
	)
}

func caseDetail(lc catalog.LegalCase) g.Node {
	return Div(Class("case-detail bg-white rounded-lg shadow p-6 mb-8"),
		H2(Class("text-2xl font-bold mb-2"), g.Text(lc.Title)),
		P(Class("text-gray-500"), g.Textf("%s · %s · %s", lc.Citation, lc.Court, lc.Date)),
		g.If(len(lc.Judges) > 0, P(Class("text-sm"), g.Text("Judges: "+strings.Join(lc.Judges, ", ")))),
		H3(Class("text-lg font-semibold mt-4 mb-2"), g.Text("Summary")),
		P(g.Text(lc.Summary)),
		H3(Class("text-lg font-semibold mt-4 mb-2"), g.Text("Statutes")),
		Ul(g.Map(lc.Statutes, func(s string) g.Node { return Li(g.Text(s)) })),
		H3(Class("text-lg font-semibold mt-4 mb-2"), g.Text("Tags")),
		Div(Class("flex flex-wrap gap-2"), g.Map(lc.Tags, func(t string) g.Node {
			return Span(Class("tag px-2 py-1 bg-indigo-100 rounded-full text-sm"), g.Text(t))
		})),
	)
}

var (
	specialtyOptions  = [][2]string{{"all", "All Specialties"}, {"corporate", "Corporate Law"}, {"criminal", "Criminal Law"}, {"civil", "Civil Law"}, {"family", "Family Law"}}
	experienceOptions = [][2]string{{"all", "Any Experience"}, {"junior", "1-5 Years"}, {"mid", "6-10 Years"}, {"senior", "10+ Years"}}
	sortOptions       = [][2]string{{catalog.SortRelevance, "Relevance"}, {catalog.SortExperience, "Experience (High to Low)"}, {catalog.SortName, "Name (A-Z)"}}
)

func LawyersPage(p Page, f catalog.LawyerFilter, lawyers []catalog.DirectoryLawyer) g.Node {
	return Layout(p,
		container(
			pageHeader("Find My Lawyer", "Browse experienced lawyers by specialty, experience and keyword."),
			Form(Method("get"), Action("/lawyers"), Class("grid grid-cols-1 md:grid-cols-5 gap-4 bg-white rounded-lg shadow p-4 mb-8"),
				selectField("Specialty", "specialty", f.Specialty, specialtyOptions),
				selectField("Experience", "experience", f.Experience, experienceOptions),
				Div(
					Label(For("keyword"), Class("block text-sm font-medium text-gray-700 mb-1"), g.Text("Keyword")),
					Input(Type("text"), ID("keyword"), Name("keyword"), Value(f.Keyword), Placeholder("E.g., contracts, divorce, etc."), Class("w-full border rounded-md p-2")),
				),
				selectField("Sort By", "sort", f.Sort, sortOptions),
				Button(Type("submit"), Class("self-end px-4 py-2 bg-indigo-700 text-white rounded-md"), g.Text("Search")),
			),
			g.If(len(lawyers) == 0, P(Class("text-gray-600"), g.Text("No lawyers match your criteria."))),
			Div(Class("grid grid-cols-1 md:grid-cols-3 gap-6"), g.Map(lawyers, lawyerCard)),
		),
	)
}

func lawyerCard(l catalog.DirectoryLawyer) g.Node {
	return Div(Class("lawyer-card bg-white rounded-lg shadow p-6"),
		g.If(l.Image != "", Img(Src(l.Image), Alt(l.Name), Class("w-24 h-24 rounded-full mb-4"))),
		H3(Class("lawyer-name text-xl font-semibold"), g.Text(l.Name)),
		P(Class("text-indigo-700"), g.Text(l.SpecialtyDisplay)),
		P(Class("text-sm"), g.Textf("%d years experience · %s", l.ExperienceYears, l.Location)),
		P(Class("text-sm text-gray-600"), g.Text(l.Education)),
		P(Class("text-sm text-gray-600 mt-2"), g.Text(l.NotableCases)),
	)
}
