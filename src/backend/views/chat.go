package views

import (
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/hannes/kanoon/src/backend/accounts"
	"github.com/hannes/kanoon/src/backend/chat"
	"github.com/hannes/kanoon/src/backend/processor"
)

var suggestedRequests = [][2]string{
	{"Create an eviction dispute notice", "Draft a legal notice for my landlord who is trying to evict me without proper notice"},
	{"Get steps for filing a consumer complaint", "What are the steps to file a consumer complaint in court?"},
	{"Find a family lawyer", "I need a family lawyer in Delhi for a divorce case"},
	{"Ask about tenant rights", "What are my rights as a tenant in India?"},
}

// ChatbotPage renders the conversation and the message form
func ChatbotPage(p Page, conv chat.Conversation, errMsg string) g.Node {
	return Layout(p,
		container(
			pageHeader("Indian Legal Aid Chatbot", "Get comprehensive legal assistance, document drafting, procedural roadmaps, and lawyer referrals."),
			Div(Class("max-w-4xl mx-auto grid grid-cols-1 md:grid-cols-4 gap-6"),
				Div(Class("md:col-span-3 bg-white rounded-xl shadow-md overflow-hidden flex flex-col"),
					Div(Class("bg-green-600 text-white px-6 py-4"), H2(Class("font-medium"), g.Text("Indian Legal Assistant"))),
					Div(Class("messages flex-grow overflow-y-auto p-6 space-y-4"), g.Map(conv.Messages, chatMessage)),
					Form(Method("post"), Action("/chatbot"), Class("border-t p-4 flex gap-2"),
						errorBox(errMsg),
						Input(Type("hidden"), Name("session_id"), Value(conv.ID)),
						Textarea(Name("message"), Rows("2"), Placeholder("Type your legal question or request..."), Class("flex-grow border rounded-md p-2")),
						Button(Type("submit"), Class("px-4 py-2 bg-green-600 text-white rounded-md"), g.Text("Send")),
					),
				),
				chatSidebar(),
			),
		),
	)
}

func chatMessage(m chat.Message) g.Node {
	return Div(
		c.Classes{
			"message rounded-lg p-4": true,
			"user bg-green-100 ml-12": m.Sender == chat.SenderUser,
			"bot bg-gray-100 mr-12":   m.Sender == chat.SenderBot,
		},
		g.If(m.DocumentType != chat.DocumentNone, Span(Class("document-type text-xs uppercase font-semibold"), g.Text(string(m.DocumentType)))),
		P(Class("whitespace-pre-line"), g.Text(m.Text)),
		g.If(len(m.Sources) > 0, Div(Class("sources mt-2 text-sm"),
			Strong(g.Text("Sources:")),
			Ul(g.Map(m.Sources, func(s processor.Source) g.Node {
				return Li(A(Href(s.URL), Target("_blank"), Rel("noopener"), g.Text(s.Title)))
			})),
		)),
		P(Class("text-xs text-gray-500 mt-1"), g.Text(m.Timestamp.Format("15:04"))),
	)
}

func chatSidebar() g.Node {
	about := []string{
		"This AI assistant provides comprehensive legal assistance on Indian law.",
		"Create legal notices and formal documents based on your situation.",
		"Get step-by-step procedural roadmaps for legal processes.",
		"Find relevant lawyer referrals based on your case needs.",
	}
	return Div(Class("bg-white rounded-xl shadow-md p-6 text-sm"),
		H3(Class("font-bold text-gray-900 mb-4"), g.Text("About This Chatbot")),
		Ul(Class("space-y-4 text-gray-700"), g.Map(about, func(s string) g.Node { return Li(g.Text(s)) })),
		Div(Class("mt-6 pt-6 border-t border-gray-200"),
			H3(Class("font-bold text-gray-900 mb-4"), g.Text("Try These Requests")),
			g.Map(suggestedRequests, func(r [2]string) g.Node {
				return Form(Method("post"), Action("/chatbot"),
					Input(Type("hidden"), Name("message"), Value(r[1])),
					Button(Type("submit"), Class("suggestion w-full text-left p-2 rounded-md hover:bg-gray-100"), g.Text(r[0])),
				)
			}),
		),
	)
}

// KYCState is the verification form result
type KYCState struct {
	Result *accounts.KYCVerification
	Error  string
}

func KYCPage(p Page, s KYCState) g.Node {
	field := func(label, name, typ string) g.Node {
		return Div(Class("mb-4"),
			Label(For(name), Class("block font-medium mb-2"), g.Text(label)),
			Input(Type(typ), ID(name), Name(name), Required(), Class("block w-full border rounded p-2")),
		)
	}

	return Layout(p,
		Div(Class("flex flex-col items-center justify-center bg-gray-100 p-6"),
			Div(Class("w-full max-w-md p-6 bg-white shadow-lg rounded-2xl border border-gray-300"),
				H2(Class("text-3xl font-bold text-center mb-4 text-blue-700"), g.Text("Legal Video KYC")),
				P(Class("text-center text-gray-600 mb-6"), g.Text("Securely verify your identity for legal processes.")),
				errorBox(s.Error),
				when(s.Result != nil, func() g.Node {
					return Div(Class("kyc-status mb-4 p-4 bg-green-100 text-green-700 text-center rounded-lg border border-green-300"),
						Span(Class("font-semibold"), g.Textf("Verification %s submitted: %s", s.Result.ID, s.Result.Status)),
					)
				}),
				Form(Method("post"), Action("/kyc"),
					field("Full Name", "full_name", "text"),
					field("Email", "email", "email"),
					field("Date of Birth", "dob", "date"),
					field("Document Type", "document_type", "text"),
					field("Document Number", "document_number", "text"),
					field("Issue Date", "issue_date", "date"),
					Div(Class("mb-4"),
						Label(For("expiry_date"), Class("block font-medium mb-2"), g.Text("Expiry Date")),
						Input(Type("date"), ID("expiry_date"), Name("expiry_date"), Class("block w-full border rounded p-2")),
					),
					Button(Type("submit"), Class("w-full bg-blue-700 text-white py-2 rounded-lg text-lg font-semibold"), g.Text("Submit for Verification")),
				),
				P(Class("text-xs text-gray-500 text-center mt-4"),
					g.Text("By submitting, you agree to our "),
					A(Href("#"), Class("text-blue-600 underline"), g.Text("Privacy Policy")),
					g.Text(" and "),
					A(Href("#"), Class("text-blue-600 underline"), g.Text("Terms of Use")),
					g.Text("."),
				),
			),
		),
	)
}
