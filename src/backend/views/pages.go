package views

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/hannes/kanoon/src/backend/catalog"
	"github.com/hannes/kanoon/src/backend/news"
)

type feature struct {
	Title       string
	Description string
	Link        string
	Color       string
}

var features = []feature{
	{
		Title:       "Legal Document Analysis",
		Description: "AI-powered analysis of legal documents with plain-language explanations of complex legal terms and implications.",
		Link:        "/document-analysis",
		Color:       "bg-gradient-to-br from-blue-50 to-blue-100",
	},
	{
		Title:       "Case Law Retrieval",
		Description: "Intelligent search and retrieval of relevant case law and statutes to support legal research and decision-making.",
		Link:        "/case-law",
		Color:       "bg-gradient-to-br from-purple-50 to-purple-100",
	},
	{
		Title:       "Legal Aid Chatbot",
		Description: "Ethical AI chatbot providing legal guidance with bias mitigation and transparent sourcing of information.",
		Link:        "/chatbot",
		Color:       "bg-gradient-to-br from-green-50 to-green-100",
	},
}

var values = [][2]string{
	{"Accessibility", "Designed for underserved communities with intuitive interfaces and plain language explanations."},
	{"Privacy Protection", "Robust privacy measures to protect sensitive legal information and user data."},
	{"Ethical AI", "Bias mitigation and hallucination reduction for reliable and trustworthy legal guidance."},
}

type testimonial struct {
	Name  string
	Role  string
	Quote string
}

var testimonials = []testimonial{
	{"Aarti Sharma", "Community Advocate", "Advocate AI has transformed how our community accesses legal help. The document analysis tool made complex lease agreements understandable for everyone."},
	{"Ravi Gupta", "Legal Aid Volunteer", "The case law retrieval system has been invaluable for our pro bono work. It finds relevant precedents in seconds that would have taken hours to research manually."},
	{"Aisha Sharma", "Small Business Owner", "As a small business owner, I couldn't afford traditional legal services. The AI chatbot helped me understand my regulatory obligations and saved me thousands in consulting fees."},
}

func LandingPage(p Page) g.Node {
	return Layout(p,
		Hero(),
		Section(ID("features"), Class("py-16 bg-slate-50"),
			container(
				pageHeader("Our Key Features", "Streamlining legal processes while protecting privacy and ensuring ethical compliance."),
				Div(Class("grid grid-cols-1 md:grid-cols-3 gap-8"), g.Map(features, featureCard)),
			),
		),
		Section(ID("about"), Class("py-16 bg-white"),
			container(
				pageHeader("Why Choose advocate.ai?", "Our mission is to bridge the justice gap by making legal assistance accessible to everyone."),
				Div(Class("grid grid-cols-1 md:grid-cols-3 gap-8"), g.Map(values, func(v [2]string) g.Node {
					return Div(Class("bg-slate-50 p-6 rounded-lg"),
						H3(Class("text-xl font-bold mb-2"), g.Text(v[0])),
						P(Class("text-gray-600"), g.Text(v[1])),
					)
				})),
			),
		),
		Section(Class("py-16 bg-white"),
			container(
				pageHeader("What People Are Saying", "Hear from those who have benefited from our AI-driven legal assistance."),
				Div(Class("grid grid-cols-1 md:grid-cols-3 gap-8"), g.Map(testimonials, func(t testimonial) g.Node {
					return Div(Class("testimonial bg-white p-6 rounded-lg shadow"),
						H4(Class("font-bold"), g.Text(t.Name)),
						P(Class("text-gray-600 text-sm"), g.Text(t.Role)),
						P(g.Textf("%q", t.Quote)),
					)
				})),
			),
		),
	)
}

func featureCard(f feature) g.Node {
	return A(Href(f.Link), Class("feature-card block group bg-white rounded-xl shadow-lg "+f.Color),
		Div(Class("p-6"),
			H3(Class("text-xl font-bold mb-2"), g.Text(f.Title)),
			P(Class("text-gray-600"), g.Text(f.Description)),
			Div(Class("mt-4 text-sm font-medium"), Span(g.Text("Learn more"))),
		),
	)
}

// NewsLibraryPage is the hub linking the law list, headlines and case library
func NewsLibraryPage(p Page) g.Node {
	cards := [][3]string{
		{"/law-list", "Law List", "Explore a comprehensive list of laws and regulations."},
		{"/news-headlines", "News & Headlines", "Stay updated with the latest legal news and headlines."},
		{"/legal-case-library", "Legal Case Library", "Access a collection of important legal case studies."},
	}
	return Layout(p,
		Div(Class("container mx-auto py-12 px-6"),
			H1(Class("text-4xl font-bold text-center text-indigo-900 mb-8"), g.Text("News & Library")),
			Div(Class("flex flex-col items-center gap-6"), g.Map(cards, func(card [3]string) g.Node {
				return A(Href(card[0]), Class("library-card bg-white shadow-lg rounded-lg w-full max-w-3xl p-8 text-center"),
					H2(Class("text-2xl font-semibold text-indigo-800"), g.Text(card[1])),
					P(Class("text-gray-600 mt-2"), g.Text(card[2])),
				)
			})),
		),
	)
}

func LawListPage(p Page, search string, laws []catalog.Law) g.Node {
	return Layout(p,
		Div(Class("p-4 max-w-5xl mx-auto"),
			H1(Class("text-2xl font-bold mb-4"), g.Text("List of Laws")),
			Form(Method("get"), Action("/law-list"), Class("mb-6 flex gap-2"),
				Input(Type("search"), Name("search"), Value(search), Placeholder("Search laws..."), Class("flex-grow border rounded-md p-2")),
				Button(Type("submit"), Class("px-4 py-2 bg-indigo-700 text-white rounded-md"), g.Text("Search")),
			),
			g.If(len(laws) == 0, P(Class("text-gray-600"), g.Text("No laws match your search."))),
			Ul(Class("space-y-4"), g.Map(laws, func(law catalog.Law) g.Node {
				return Li(Class("law border p-4 rounded-lg"),
					H2(Class("text-xl font-semibold"), g.Text(law.Title)),
					P(Class("text-gray-700"), g.Text(law.Description)),
				)
			})),
		),
	)
}

// NewsHeadlinesPage lists live headlines. Articles without an image skip
// the picture.
func NewsHeadlinesPage(p Page, articles []news.Article) g.Node {
	return Layout(p,
		Div(Class("p-4 max-w-5xl mx-auto"),
			H1(Class("text-2xl font-bold mb-4"), g.Text("Indian Legal News")),
			g.If(len(articles) == 0, P(Class("text-gray-600"), g.Text("No headlines available right now."))),
			g.Map(articles, func(a news.Article) g.Node {
				return Div(Class("article border-b mb-4 pb-4"),
					g.If(a.Image != "", Img(Src(a.Image), Alt(a.Title), Class("w-full h-60 object-cover mb-2"))),
					H2(Class("text-lg font-semibold"), g.Text(a.Title)),
					P(g.Text(a.Description)),
					A(Href(a.URL), Target("_blank"), Rel("noopener"), Class("text-blue-500"), g.Text("Read More")),
				)
			}),
		),
	)
}

// NotFoundPage is rendered for unknown routes
func NotFoundPage(p Page) g.Node {
	return Layout(p,
		container(
			pageHeader("Page not found", "The page you are looking for does not exist."),
			P(Class("text-center"), A(Href("/"), Class("text-indigo-700 underline"), g.Text("Back to home"))),
		),
	)
}
