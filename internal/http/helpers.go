package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lopniv/financeapp-backend/internal/core"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps domain errors onto the HTTP status classes:
// malformed input and insufficient funds are 400, missing records 404,
// anything else a generic 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrWalletNotFound),
		errors.Is(err, core.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidID),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrEmptyNote),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrMissingWallet),
		errors.Is(err, core.ErrInsufficientFunds),
		errors.Is(err, core.ErrSameWallet):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Unexpected error", "error", err, "url", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// pathID validates an id path segment as a UUID.
func pathID(r *http.Request, name string) (string, error) {
	raw := r.PathValue(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", core.ErrInvalidID
	}
	return raw, nil
}

// parseYearMonthQuery reads optional year/month query parameters. Both must
// be present and valid for the pair to count.
func parseYearMonthQuery(r *http.Request) (year, month int, ok bool, err error) {
	ys := strings.TrimSpace(r.URL.Query().Get("year"))
	ms := strings.TrimSpace(r.URL.Query().Get("month"))
	if ys == "" || ms == "" {
		return 0, 0, false, nil
	}
	year, err = strconv.Atoi(ys)
	if err != nil {
		return 0, 0, false, fmt.Errorf("invalid year: %q", ys)
	}
	month, err = strconv.Atoi(ms)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false, fmt.Errorf("invalid month: %q", ms)
	}
	return year, month, true, nil
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(dateStr string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %q", dateStr)
	}
	return t.UTC(), nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
