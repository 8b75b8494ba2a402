package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

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

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("malformed request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, legal.ErrInvalidRequest),
		errors.Is(err, analysis.ErrNoDocument),
		errors.Is(err, analysis.ErrUnsupportedType),
		errors.Is(err, catalog.ErrEmptyQuery),
		errors.Is(err, news.ErrInvalidArticle),
		errors.Is(err, translate.ErrInvalidLanguage),
		errors.Is(err, accounts.ErrInvalidUser),
		errors.Is(err, accounts.ErrInvalidKYC):
		return http.StatusBadRequest
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, chat.ErrSessionNotFound),
		errors.Is(err, accounts.ErrKYCNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, accounts.ErrDuplicateEmail),
		errors.Is(err, accounts.ErrAlreadyReviewed),
		errors.Is(err, storage.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the mapped status. Server errors are logged at
// error level, which also reports them to Sentry, and their details are
// not exposed to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		}
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// intParam reads a non-negative integer query parameter, returning def
// when it is missing or malformed
func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
