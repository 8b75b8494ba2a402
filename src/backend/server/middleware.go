package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hannes/kanoon/src/backend/chat"
)

const (
	sessionName      = "kanoon-session"
	sessionChatID    = "chat_session_id"
	sessionVisitorID = "visitor_id"
)

// cors applies the CORS headers to every response and answers preflight
// requests directly
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsHandler(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		}
		if r.URL.Path == "/health" {
			s.logger.Debug("request", fields...)
			return
		}
		s.logger.Info("request", fields...)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientKey(r)) {
			s.logger.Warn("rate limit exceeded", zap.String("client", clientKey(r)), zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client address. Buckets idle
// for longer than clientIdleTTL are dropped on the next sweep.
type clientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientEntry
	lastSweep time.Time
	now       func() time.Time
}

const clientIdleTTL = 3 * time.Minute

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &clientLimiter{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*clientEntry),
		now:     time.Now,
	}
}

func (l *clientLimiter) Allow(client string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > time.Minute {
		for key, entry := range l.clients {
			if now.Sub(entry.lastSeen) > clientIdleTTL {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.clients[client]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// conversation returns the chat conversation bound to the session cookie,
// starting a new one when the cookie is missing or points at an expired
// conversation
func (s *Server) conversation(w http.ResponseWriter, r *http.Request) chat.Conversation {
	session, err := s.sessionStore.Get(r, sessionName)
	if err != nil {
		// A cookie signed with another secret still yields a fresh session
		s.logger.Debug("discarding invalid session cookie", zap.Error(err))
	}

	if id, ok := session.Values[sessionChatID].(string); ok {
		if conv, err := s.assistant.Sessions().Get(id); err == nil {
			return conv
		}
	}

	conv := s.assistant.StartConversation()
	session.Values[sessionChatID] = conv.ID
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("failed to save session", zap.Error(err))
	}
	return conv
}

// visitorID returns the anonymous id stored in the session cookie,
// issuing one on first use
func (s *Server) visitorID(w http.ResponseWriter, r *http.Request) string {
	session, _ := s.sessionStore.Get(r, sessionName)
	if id, ok := session.Values[sessionVisitorID].(string); ok && id != "" {
		return id
	}

	id := "guest-" + uuid.NewString()
	session.Values[sessionVisitorID] = id
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("failed to save session", zap.Error(err))
	}
	return id
}
