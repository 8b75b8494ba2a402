package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hannes/kanoon/src/backend/accounts"
	"github.com/hannes/kanoon/src/backend/analysis"
	"github.com/hannes/kanoon/src/backend/catalog"
	"github.com/hannes/kanoon/src/backend/chat"
	"github.com/hannes/kanoon/src/backend/legal"
	"github.com/hannes/kanoon/src/backend/news"
	"github.com/hannes/kanoon/src/backend/storage"
	"github.com/hannes/kanoon/src/backend/translate"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string       `json:"session_id"`
	Message   chat.Message `json:"message"`
}

// handleChat answers one message. Requests without a session id start a
// new conversation.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, r, chat.ErrEmptyMessage)
		return
	}
	if req.SessionID == "" {
		req.SessionID = s.assistant.StartConversation().ID
	}

	msg, err := s.assistant.Reply(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Message: msg})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	conv, err := s.assistant.Sessions().Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	intent := chat.Classify(req.Message)
	writeJSON(w, http.StatusOK, map[string]string{
		"intent":        string(intent),
		"document_type": string(intent.DocumentType()),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	answer, err := s.legal.Ask(r.Context(), req.Question)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": answer})
}

func (s *Server) handleNotice(w http.ResponseWriter, r *http.Request) {
	var req legal.NoticeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	notice, err := s.legal.GenerateNotice(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"notice": notice})
}

func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	var req legal.RoadmapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	roadmap, err := s.legal.GenerateRoadmap(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roadmap)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	explanation, err := s.legal.Explain(r.Context(), req.Topic)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"explanation": explanation})
}

func (s *Server) handleSummarizeNotice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.legal.SummarizeNotice(r.Context(), req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleParseDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, legal.ParseDocument(req.Text))
}

// readUpload returns the multipart "file" field. A request without one
// yields a nil document.
func readUpload(w http.ResponseWriter, r *http.Request) (*analysis.Document, error) {
	r.Body = http.MaxBytesReader(w, r.Body, analysis.MaxFileSize+maxBodyBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, analysis.ErrTooLarge
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, nil
		default:
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return &analysis.Document{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (s *Server) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := s.analyzer.Analyze(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type caseLawRequest struct {
	Query string `json:"query"`
	catalog.SearchFilters
}

func (s *Server) handleCaseLawSearch(w http.ResponseWriter, r *http.Request) {
	var req caseLawRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.catalog.SearchCaseLaw(r.Context(), req.Query, req.SearchFilters, s.config.Simulation.CaseLawDelay)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLaws(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Laws(r.URL.Query().Get("search")))
}

func lawyerFilter(r *http.Request) catalog.LawyerFilter {
	q := r.URL.Query()
	return catalog.LawyerFilter{
		Specialty:  q.Get("specialty"),
		Experience: q.Get("experience"),
		Keyword:    q.Get("keyword"),
		Sort:       q.Get("sort"),
	}
}

func (s *Server) handleLawyers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Lawyers(lawyerFilter(r)))
}

func caseFilter(r *http.Request) catalog.CaseFilter {
	q := r.URL.Query()
	return catalog.CaseFilter{
		Court:       q.Get("court"),
		Category:    q.Get("category"),
		YearFrom:    catalog.ParseYear(q.Get("year_from")),
		YearTo:      catalog.ParseYear(q.Get("year_to")),
		SearchQuery: q.Get("q"),
	}
}

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Cases(caseFilter(r)))
}

func (s *Server) handleCase(w http.ResponseWriter, r *http.Request) {
	lc, ok := s.catalog.Case(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "case not found"})
		return
	}
	writeJSON(w, http.StatusOK, lc)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	articles := s.news.Headlines(r.Context(), news.Query{
		Countries:  q.Get("countries"),
		Categories: q.Get("categories"),
		Keywords:   q.Get("keywords"),
		Limit:      intParam(r, "limit", 0),
	})
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.library.List(r.Context(), intParam(r, "limit", 20), intParam(r, "offset", 0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var req news.ArticleCreate
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	article, err := s.library.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, article)
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translate.Request
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.translator.Translate(r.Context(), req))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.accounts.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req accounts.UserCreate
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.accounts.CreateUser(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListKYC(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.kyc.List())
}

func (s *Server) handleSubmitKYC(w http.ResponseWriter, r *http.Request) {
	var req accounts.KYCSubmit
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kyc, err := s.kyc.Submit(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("KYC submitted", zap.String("kyc_id", kyc.ID))
	writeJSON(w, http.StatusCreated, kyc)
}

func (s *Server) handleGetKYC(w http.ResponseWriter, r *http.Request) {
	kyc, err := s.kyc.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kyc)
}

type reviewRequest struct {
	Verifier string `json:"verifier"`
	Reason   string `json:"reason"`
}

func (s *Server) handleApproveKYC(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kyc, err := s.kyc.Approve(chi.URLParam(r, "id"), req.Verifier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kyc)
}

func (s *Server) handleRejectKYC(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kyc, err := s.kyc.Reject(chi.URLParam(r, "id"), req.Reason, req.Verifier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kyc)
}

const (
	minSearchLength = 3
	maxSearchLength = 500
)

type searchResult struct {
	Query     string    `json:"query"`
	Results   int       `json:"results"`
	Timestamp time.Time `json:"timestamp"`
}

// handleSearch is a placeholder search: it reports twice the query length
// as the number of results and records the query
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	n := utf8.RuneCountInString(req.Query)
	if n < minSearchLength || n > maxSearchLength {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("query: must be between %d and %d characters (current length: %d)", minSearchLength, maxSearchLength, n),
		})
		return
	}

	recorded, err := s.store.RecordSearch(r.Context(), storage.SearchQuery{
		Query:        req.Query,
		ResultsFound: n * 2,
		Timestamp:    s.now().UTC(),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Search performed", zap.String("query", req.Query))
	writeJSON(w, http.StatusOK, searchResult{Query: recorded.Query, Results: recorded.ResultsFound, Timestamp: recorded.Timestamp})
}

func (s *Server) handleListSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := s.store.ListSearches(r.Context(), intParam(r, "limit", 20))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searches)
}

// handleActivity returns logged chat messages, newest first
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 100)
	if limit == 0 {
		limit = 100
	}
	offset := intParam(r, "offset", 0)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entries, err := s.store.GetEntries(ctx, limit, offset)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to retrieve activity: %w", err))
		return
	}

	total, err := s.store.GetEntriesCount(ctx)
	if err != nil {
		s.logger.Warn("failed to count activity entries", zap.Error(err))
		total = -1
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (s *Server) handleClearActivity(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearEntries(r.Context()); err != nil {
		s.writeError(w, r, fmt.Errorf("failed to clear activity: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "API is running smoothly",
		"timestamp": s.now().UTC(),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app_name": appName,
		"version":  appVersion,
		"provider": s.config.Providers.Default,
		"storage":  s.config.Database.Driver,
		"sessions": s.assistant.Sessions().Len(),
	})
}
