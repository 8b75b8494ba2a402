package server

import (
	"net/http"

	g "maragu.dev/gomponents"
	"go.uber.org/zap"

	"github.com/hannes/kanoon/src/backend/accounts"
	"github.com/hannes/kanoon/src/backend/analysis"
	"github.com/hannes/kanoon/src/backend/catalog"
	"github.com/hannes/kanoon/src/backend/news"
	"github.com/hannes/kanoon/src/backend/views"
)

func (s *Server) page(r *http.Request, title string) views.Page {
	return views.Page{Title: title, Path: r.URL.Path, Year: s.now().Year()}
}

func (s *Server) render(w http.ResponseWriter, status int, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := node.Render(w); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
	}
}

// pageError returns the status and message shown on a page for err
func (s *Server) pageError(r *http.Request, err error) (int, string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("page request failed", zap.String("path", r.URL.Path), zap.Error(err))
		return status, "Something went wrong. Please try again later."
	}
	return status, err.Error()
}

func (s *Server) landingPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, views.LandingPage(s.page(r, "")))
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, views.NotFoundPage(s.page(r, "Not Found")))
}

func (s *Server) documentAnalysisPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, views.DocumentAnalysisPage(s.page(r, "Document Analysis"), views.DocumentAnalysisState{}))
}

func (s *Server) documentAnalysisSubmit(w http.ResponseWriter, r *http.Request) {
	p := s.page(r, "Document Analysis")

	var state views.DocumentAnalysisState
	doc, err := readUpload(w, r)
	if err == nil {
		if doc != nil {
			state.FileName = doc.Name
		}
		var report analysis.Report
		report, err = s.analyzer.Analyze(r.Context(), doc)
		if err == nil {
			state.Report = &report
			s.render(w, http.StatusOK, views.DocumentAnalysisPage(p, state))
			return
		}
	}

	status, msg := s.pageError(r, err)
	state.Error = msg
	s.render(w, status, views.DocumentAnalysisPage(p, state))
}

func (s *Server) caseLawPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, views.CaseLawPage(s.page(r, "Case Law Retrieval"), views.CaseLawState{}))
}

func (s *Server) caseLawSubmit(w http.ResponseWriter, r *http.Request) {
	state := views.CaseLawState{
		Query: r.PostFormValue("query"),
		Filters: catalog.SearchFilters{
			Jurisdiction: r.PostFormValue("jurisdiction"),
			DateRange:    r.PostFormValue("date_range"),
			CaseType:     r.PostFormValue("case_type"),
		},
	}
	p := s.page(r, "Case Law Retrieval")

	resp, err := s.catalog.SearchCaseLaw(r.Context(), state.Query, state.Filters, s.config.Simulation.CaseLawDelay)
	if err != nil {
		status, msg := s.pageError(r, err)
		state.Error = msg
		s.render(w, status, views.CaseLawPage(p, state))
		return
	}
	state.Response = &resp
	s.render(w, http.StatusOK, views.CaseLawPage(p, state))
}

func (s *Server) chatbotPage(w http.ResponseWriter, r *http.Request) {
	conv := s.conversation(w, r)
	s.render(w, http.StatusOK, views.ChatbotPage(s.page(r, "Legal Aid Chatbot"), conv, ""))
}

// chatbotSubmit replies to the posted message and redirects back to the
// conversation. A session id from the form wins over the cookie when it
// names a live conversation.
func (s *Server) chatbotSubmit(w http.ResponseWriter, r *http.Request) {
	conv := s.conversation(w, r)
	if id := r.PostFormValue("session_id"); id != "" && id != conv.ID {
		if other, err := s.assistant.Sessions().Get(id); err == nil {
			conv = other
			s.bindConversation(w, r, id)
		}
	}

	if _, err := s.assistant.Reply(r.Context(), conv.ID, r.PostFormValue("message")); err != nil {
		status, msg := s.pageError(r, err)
		if latest, getErr := s.assistant.Sessions().Get(conv.ID); getErr == nil {
			conv = latest
		}
		s.render(w, status, views.ChatbotPage(s.page(r, "Legal Aid Chatbot"), conv, msg))
		return
	}
	http.Redirect(w, r, "/chatbot", http.StatusSeeOther)
}

func (s *Server) bindConversation(w http.ResponseWriter, r *http.Request, id string) {
	session, _ := s.sessionStore.Get(r, sessionName)
	session.Values[sessionChatID] = id
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("failed to save session", zap.Error(err))
	}
}

func (s *Server) lawListPage(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	s.render(w, http.StatusOK, views.LawListPage(s.page(r, "Law List"), search, s.catalog.Laws(search)))
}

func (s *Server) newsHeadlinesPage(w http.ResponseWriter, r *http.Request) {
	articles := s.news.Headlines(r.Context(), news.Query{})
	s.render(w, http.StatusOK, views.NewsHeadlinesPage(s.page(r, "News & Headlines"), articles))
}

func (s *Server) newsLibraryPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, views.NewsLibraryPage(s.page(r, "News & Library")))
}

func (s *Server) lawyersPage(w http.ResponseWriter, r *http.Request) {
	f := lawyerFilter(r)
	s.render(w, http.StatusOK, views.LawyersPage(s.page(r, "Find a Lawyer"), f, s.catalog.Lawyers(f)))
}

func (s *Server) caseLibraryPage(w http.ResponseWriter, r *http.Request) {
	f := caseFilter(r)
	state := views.CaseLibraryState{
		Filter:     f,
		Cases:      s.catalog.Cases(f),
		Courts:     s.catalog.Courts(),
		Categories: s.catalog.Categories(),
	}
	if id := r.URL.Query().Get("case"); id != "" {
		if lc, ok := s.catalog.Case(id); ok {
			state.Selected = &lc
		}
	}
	s.render(w, http.StatusOK, views.CaseLibraryPage(s.page(r, "Legal Case Library"), state))
}

func (s *Server) kycPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, views.KYCPage(s.page(r, "Legal Video KYC"), views.KYCState{}))
}

func (s *Server) kycSubmit(w http.ResponseWriter, r *http.Request) {
	p := s.page(r, "Legal Video KYC")
	userID := r.PostFormValue("user_id")
	if userID == "" {
		userID = s.visitorID(w, r)
	}
	kyc, err := s.kyc.Submit(accounts.KYCSubmit{
		UserID:         userID,
		FullName:       r.PostFormValue("full_name"),
		Email:          r.PostFormValue("email"),
		DOB:            r.PostFormValue("dob"),
		DocumentType:   r.PostFormValue("document_type"),
		DocumentNumber: r.PostFormValue("document_number"),
		IssueDate:      r.PostFormValue("issue_date"),
		ExpiryDate:     r.PostFormValue("expiry_date"),
	})
	if err != nil {
		status, msg := s.pageError(r, err)
		s.render(w, status, views.KYCPage(p, views.KYCState{Error: msg}))
		return
	}
	s.render(w, http.StatusCreated, views.KYCPage(p, views.KYCState{Result: &kyc}))
}
