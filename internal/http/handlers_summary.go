package http

import (
	"net/http"
	"strconv"

	"github.com/Lopniv/financeapp-backend/internal/core"
)

func (s *Server) handleGlobalSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ledger.Summary(r.Context(), "")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleWalletSummary(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathID(r, "walletId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	summary, err := s.ledger.Summary(r.Context(), walletID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathID(r, "walletId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 {
		respondError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		respondError(w, http.StatusBadRequest, "invalid month")
		return
	}

	summary, err := s.ledger.MonthlySummary(r.Context(), walletID, year, month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathID(r, "walletId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	category := core.Category(r.PathValue("category"))

	year, month, _, err := parseYearMonthQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.ledger.CategorySummary(r.Context(), walletID, category, year, month)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
