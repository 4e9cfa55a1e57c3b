package http

import (
	"net/http"
	"time"

	"github.com/Lopniv/financeapp-backend/internal/core"
	"github.com/Lopniv/financeapp-backend/internal/ledger"
)

type createTransactionRequest struct {
	WalletID string        `json:"walletId"`
	Amount   core.Money    `json:"amount"`
	Type     core.Type     `json:"type"`
	Category core.Category `json:"category"`
	Note     string        `json:"note"`
	Date     string        `json:"date"`
}

type updateTransactionRequest struct {
	Amount   core.Money    `json:"amount"`
	Type     core.Type     `json:"type"`
	Category core.Category `json:"category"`
	Note     string        `json:"note"`
	Date     string        `json:"date"`
}

type transferRequest struct {
	FromWalletID string     `json:"fromWalletId"`
	ToWalletID   string     `json:"toWalletId"`
	Amount       core.Money `json:"amount"`
	// Category is accepted for wire compatibility but ignored: transfer
	// entries are always tagged transferout/transferin.
	Category core.Category `json:"category"`
	Note     string        `json:"note"`
	Date     string        `json:"date"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	year, month, ok, err := parseYearMonthQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var filter core.TransactionFilter
	if ok {
		filter.Year, filter.Month = year, month
	}
	s.listTransactions(w, r, filter)
}

func (s *Server) handleListTransactionsByWallet(w http.ResponseWriter, r *http.Request) {
	walletID, err := pathID(r, "walletId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.listTransactions(w, r, core.TransactionFilter{WalletID: walletID})
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request, filter core.TransactionFilter) {
	transactions, err := s.ledger.ListTransactions(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := optionalDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.ledger.AddTransaction(r.Context(), core.Transaction{
		WalletID: req.WalletID,
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Note:     sanitizeInput(req.Note),
		Date:     date,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := optionalDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.ledger.Transfer(r.Context(), ledger.TransferRequest{
		FromWalletID: req.FromWalletID,
		ToWalletID:   req.ToWalletID,
		Amount:       req.Amount,
		Note:         sanitizeInput(req.Note),
		Date:         date,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "transfer completed"})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := optionalDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.ledger.UpdateTransaction(r.Context(), id, ledger.TransactionUpdate{
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Note:     sanitizeInput(req.Note),
		Date:     date,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}

func optionalDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, nil
	}
	return parseDate(dateStr)
}
