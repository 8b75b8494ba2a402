package views

import (
	"fmt"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"
)

const SiteName = "advocate.ai"

// Page carries the per-request chrome settings
type Page struct {
	Title string
	Path  string
	Year  int
}

type navLink struct {
	Name string
	Path string
}

var navLinks = []navLink{
	{Name: "Home", Path: "/"},
	{Name: "Document", Path: "/document-analysis"},
	{Name: "Case Law", Path: "/case-law"},
	{Name: "Chatbot", Path: "/chatbot"},
	{Name: "Lawyers", Path: "/lawyers"},
	{Name: "News & Library", Path: "/news-library"},
}

// Layout wraps body in the document shell with the navigation bar and footer
func Layout(p Page, body ...g.Node) g.Node {
	title := SiteName
	if p.Title != "" {
		title = p.Title + " | " + SiteName
	}

	return c.HTML5(c.HTML5Props{
		Title:       title,
		Description: "AI-driven legal assistance for underserved communities.",
		Language:    "en",
		Head: []g.Node{
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			Link(Rel("stylesheet"), Href("/static/app.css")),
		},
		Body: []g.Node{
			Div(
				Class("min-h-screen flex flex-col bg-slate-50"),
				Navbar(p.Path),
				Main(Class("flex-grow"), g.Group(body)),
				PageFooter(p.Year),
			),
		},
	})
}

// Navbar renders the top navigation, highlighting the link for active
func Navbar(active string) g.Node {
	return Nav(
		Class("bg-indigo-900 text-white shadow-lg"),
		Div(
			Class("max-w-7xl mx-auto px-6 lg:px-10"),
			Div(
				Class("flex justify-between items-center h-20"),
				A(Href("/"), Class("flex items-center space-x-3"),
					Span(Class("text-2xl font-extrabold"), g.Text(SiteName)),
				),
				Div(
					Class("hidden md:flex items-center space-x-4"),
					g.Map(navLinks, func(l navLink) g.Node {
						return A(
							Href(l.Path),
							c.Classes{
								"text-base font-semibold px-3 py-2 rounded-md": true,
								"bg-indigo-700":       l.Path == active,
								"hover:bg-indigo-800": l.Path != active,
							},
							g.Text(l.Name),
						)
					}),
				),
			),
		),
	)
}

func PageFooter(year int) g.Node {
	return Footer(
		Class("bg-[#c2ad6acb] text-black"),
		Div(
			Class("max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-8"),
			Div(
				Class("grid grid-cols-1 md:grid-cols-4 gap-8"),
				Div(
					Span(Class("font-bold text-lg"), g.Text(SiteName)),
					P(Class("text-sm"), g.Text("Democratizing legal guidance for underserved communities through AI-powered solutions.")),
				),
				footerColumn("Services", "Document Analysis", "Case Law Retrieval", "Legal Aid Chatbot", "Privacy Protection"),
				footerColumn("Resources", "Legal Guides", "FAQ", "Privacy Policy", "Terms of Service"),
				footerColumn("Contact", "contact@advocate.ai", "+91 555-123-4567", "123 Justice Ave, Legal City"),
			),
			Div(
				Class("border-t border-[#C19A6B] mt-8 pt-8 text-center"),
				P(g.Text(fmt.Sprintf("© %d %s. All rights reserved.", year, SiteName))),
			),
		),
	)
}

func footerColumn(heading string, items ...string) g.Node {
	return Div(
		H3(Class("font-semibold text-lg mb-4"), g.Text(heading)),
		Ul(Class("space-y-2"), g.Map(items, func(item string) g.Node {
			return Li(g.Text(item))
		})),
	)
}

// Hero is the landing page banner
func Hero() g.Node {
	return Section(
		ID("hero"),
		Class("relative flex items-center justify-center text-center px-6 bg-white"),
		Div(
			Class("flex flex-col items-center text-black max-w-3xl mx-auto"),
			H1(Class("text-4xl font-bold leading-tight"),
				g.Text("Democratizing Legal "), Br(), g.Text("Guidance for AI"),
			),
			P(Class("mt-3 text-lg max-w-2xl"),
				g.Text("Our AI-driven legal assistance ecosystem provides accessible, unbiased, and ethically compliant support for underserved communities."),
			),
			Div(
				Class("mt-5 flex gap-4"),
				A(Href("#features"), Class("px-6 py-2 bg-blue-600 text-white font-semibold rounded-lg"), g.Text("Explore Features")),
				A(Href("#about"), Class("px-6 py-2 bg-gray-300 text-black font-semibold rounded-lg"), g.Text("Learn More")),
			),
		),
	)
}

func pageHeader(title, subtitle string) g.Node {
	return Div(
		Class("text-center mb-12"),
		H1(Class("text-3xl font-bold text-gray-900 mb-4"), g.Text(title)),
		g.If(subtitle != "", P(Class("text-xl text-gray-600 max-w-3xl mx-auto"), g.Text(subtitle))),
	)
}

func container(children ...g.Node) g.Node {
	return Div(Class("max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-12"), g.Group(children))
}

func errorBox(msg string) g.Node {
	return g.If(msg != "", Div(Class("error bg-red-50 border-l-4 border-red-400 p-4 mb-6 text-red-700"), g.Attr("role", "alert"), g.Text(msg)))
}

func selectField(label, name, selected string, options [][2]string) g.Node {
	return Div(
		Label(For(name), Class("block text-sm font-medium text-gray-700 mb-1"), g.Text(label)),
		Select(ID(name), Name(name), Class("w-full border rounded-md p-2"),
			g.Map(options, func(o [2]string) g.Node {
				return Option(Value(o[0]), g.If(o[0] == selected, Selected()), g.Text(o[1]))
			}),
		),
	)
}

// when builds the node only if cond holds
func when(cond bool, build func() g.Node) g.Node {
	if !cond {
		return g.Group(nil)
	}
	return build()
}
