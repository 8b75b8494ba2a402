package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hannes/kanoon/src/backend/accounts"
	"github.com/hannes/kanoon/src/backend/analysis"
	"github.com/hannes/kanoon/src/backend/catalog"
	"github.com/hannes/kanoon/src/backend/chat"
	"github.com/hannes/kanoon/src/backend/config"
	"github.com/hannes/kanoon/src/backend/legal"
	"github.com/hannes/kanoon/src/backend/news"
	"github.com/hannes/kanoon/src/backend/storage"
	"github.com/hannes/kanoon/src/backend/translate"
)

const (
	serviceName = "Kanoon Legal Aid Service"
	appName     = "Legal Aid API"
	appVersion  = "1.0.0"
)

// Deps are the services the HTTP layer delegates to
type Deps struct {
	Config     *config.Config
	Assistant  *chat.Assistant
	Legal      *legal.Service
	Analyzer   *analysis.Analyzer
	Catalog    *catalog.Catalog
	News       *news.Client
	Library    *news.Library
	Translator *translate.Client
	Accounts   *accounts.Service
	KYC        *accounts.KYCRegistry
	Store      storage.Store
	Logger     *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	config       *config.Config
	assistant    *chat.Assistant
	legal        *legal.Service
	analyzer     *analysis.Analyzer
	catalog      *catalog.Catalog
	news         *news.Client
	library      *news.Library
	translator   *translate.Client
	accounts     *accounts.Service
	kyc          *accounts.KYCRegistry
	store        storage.Store
	sessionStore *sessions.CookieStore
	limiter      *clientLimiter
	logger       *zap.Logger
	now          func() time.Time
	router       chi.Router
}

// sessionKey returns the cookie signing key. Without a configured secret a
// random key is generated, so session cookies do not survive a restart.
func sessionKey(secret string, logger *zap.Logger) []byte {
	if secret != "" {
		return []byte(secret)
	}
	logger.Warn("server.session_secret is not set, using a random per-process key")
	return securecookie.GenerateRandomKey(32)
}

// NewServer creates a new server instance and mounts every route
func NewServer(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sessionStore := sessions.NewCookieStore(sessionKey(d.Config.Server.SessionSecret, logger))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	s := &Server{
		config:       d.Config,
		assistant:    d.Assistant,
		legal:        d.Legal,
		analyzer:     d.Analyzer,
		catalog:      d.Catalog,
		news:         d.News,
		library:      d.Library,
		translator:   d.Translator,
		accounts:     d.Accounts,
		kyc:          d.KYC,
		store:        d.Store,
		sessionStore: sessionStore,
		limiter:      newClientLimiter(d.Config.Server.RateLimit, d.Config.Server.RateBurst),
		logger:       logger.Named("server"),
		now:          time.Now,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.requestLogger,
		middleware.Recoverer,
		s.cors,
		s.rateLimit,
	)

	r.Get("/health", s.healthCheck)
	r.Handle("/static/*", staticHandler())

	r.Get("/", s.landingPage)
	r.Get("/document-analysis", s.documentAnalysisPage)
	r.Post("/document-analysis", s.documentAnalysisSubmit)
	r.Get("/case-law", s.caseLawPage)
	r.Post("/case-law", s.caseLawSubmit)
	r.Get("/chatbot", s.chatbotPage)
	r.Post("/chatbot", s.chatbotSubmit)
	r.Get("/law-list", s.lawListPage)
	r.Get("/news-headlines", s.newsHeadlinesPage)
	r.Get("/lawyers", s.lawyersPage)
	r.Get("/legal-case-library", s.caseLibraryPage)
	r.Get("/news-library", s.newsLibraryPage)
	r.Get("/kyc", s.kycPage)
	r.Post("/kyc", s.kycSubmit)

	// Paths used by the earlier single-page frontend
	r.Get("/case-law-retrieval", redirect("/case-law"))
	r.Get("/legal-aid-chatbot", redirect("/chatbot"))
	r.Get("/news-and-library", redirect("/news-library"))

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/chat/{id}", s.handleChatHistory)
		r.Post("/classify", s.handleClassify)

		r.Post("/ask", s.handleAsk)
		r.Post("/notice", s.handleNotice)
		r.Post("/roadmap", s.handleRoadmap)
		r.Post("/explain", s.handleExplain)
		r.Post("/summarize-notice", s.handleSummarizeNotice)
		r.Post("/parse-document", s.handleParseDocument)
		r.Post("/documents/analyze", s.handleAnalyzeDocument)

		r.Post("/case-law/search", s.handleCaseLawSearch)
		r.Get("/laws", s.handleLaws)
		r.Get("/lawyers", s.handleLawyers)
		r.Get("/cases", s.handleCases)
		r.Get("/cases/{id}", s.handleCase)

		r.Get("/news", s.handleNews)
		r.Get("/news/articles", s.handleListArticles)
		r.Post("/news/articles", s.handleCreateArticle)
		r.Post("/translate", s.handleTranslate)

		r.Get("/users", s.handleListUsers)
		r.Post("/users", s.handleCreateUser)
		r.Post("/login", s.handleLogin)
		r.Get("/kyc", s.handleListKYC)
		r.Post("/kyc", s.handleSubmitKYC)
		r.Get("/kyc/{id}", s.handleGetKYC)
		r.Post("/kyc/{id}/approve", s.handleApproveKYC)
		r.Post("/kyc/{id}/reject", s.handleRejectKYC)

		r.Post("/search", s.handleSearch)
		r.Get("/search", s.handleListSearches)
		r.Get("/activity", s.handleActivity)
		r.Delete("/activity", s.handleClearActivity)
		r.Get("/status", s.handleStatus)
		r.Get("/info", s.handleInfo)
	})

	r.NotFound(s.notFound)
	return r
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting legal aid service",
		zap.String("addr", s.config.Server.Port),
		zap.String("provider", s.config.Providers.Default),
		zap.String("storage", s.config.Database.Driver))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.config.Server.Port,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// healthCheck provides a simple health check endpoint
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"healthy","service":"` + serviceName + `"}`)); err != nil {
		s.logger.Warn("failed to write health check response", zap.Error(err))
	}
}

// corsHandler adds CORS headers to the response
func (s *Server) corsHandler(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header (curl, same-origin navigation): allow all
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "false")
	} else {
		// Echo the origin back so the session cookie can be sent
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Add("Vary", "Origin")
	}

	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func redirect(to string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, to, http.StatusMovedPermanently)
	}
}
