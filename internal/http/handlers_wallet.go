package http

import (
	"net/http"

	"github.com/Lopniv/financeapp-backend/internal/core"
)

type createWalletRequest struct {
	Name    string     `json:"name"`
	Balance core.Money `json:"balance"`
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.ledger.ListWallets(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if wallets == nil {
		wallets = []core.Wallet{}
	}
	respondJSON(w, http.StatusOK, wallets)
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wallet, err := s.ledger.CreateWallet(r.Context(), sanitizeInput(req.Name), req.Balance)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, wallet)
}

func (s *Server) handleRecomputeWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	wallet, drift, err := s.ledger.RecomputeBalance(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"wallet":     wallet,
		"driftCents": drift,
	})
}
