package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ledger/internal/models"
	"ledger/internal/money"
	"ledger/internal/services"
	"ledger/internal/validator"

	"github.com/go-chi/chi/v5"
)

type transferRequest struct {
	FromAccountID  string `json:"from_account_id"`
	ToAccountID    string `json:"to_account_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotency_key"`
}

type transferResponse struct {
	ID            string    `json:"id"`
	FromAccountID string    `json:"from_account_id"`
	ToAccountID   string    `json:"to_account_id"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func transferToResponse(transfer models.Transfer) transferResponse {
	return transferResponse{
		ID:            transfer.ID,
		FromAccountID: transfer.FromAccountID,
		ToAccountID:   transfer.ToAccountID,
		Amount:        money.FormatAmount(transfer.Amount),
		Currency:      transfer.Currency,
		Status:        string(transfer.Status),
		CreatedAt:     transfer.CreatedAt,
	}
}

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}
	if err := validator.ValidateIdempotencyKey(req.IdempotencyKey); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_idempotency_key")
		return
	}
	if err := validator.ValidateAccountID(req.FromAccountID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_from_account_id")
		return
	}
	if err := validator.ValidateAccountID(req.ToAccountID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_to_account_id")
		return
	}
	if err := validator.ValidateCurrency(req.Currency); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_currency")
		return
	}
	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}

	transfer, err := h.service.ProcessTransfer(r.Context(), services.ProcessRequest{
		FromAccountID:  req.FromAccountID,
		ToAccountID:    req.ToAccountID,
		Amount:         amount,
		Currency:       req.Currency,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSourceAccountNotFound):
			respondError(w, http.StatusNotFound, "from_account_not_found")
		case errors.Is(err, services.ErrDestinationAccountNotFound):
			respondError(w, http.StatusNotFound, "to_account_not_found")
		case errors.Is(err, services.ErrSameAccountTransfer):
			respondError(w, http.StatusBadRequest, "same_account_transfer")
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		case errors.Is(err, services.ErrTransferInProgress):
			respondError(w, http.StatusConflict, "transfer_in_progress")
		case errors.Is(err, models.ErrInsufficientFunds):
			respondError(w, http.StatusUnprocessableEntity, "insufficient_funds")
		default:
			respondError(w, http.StatusInternalServerError, "transfer_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, transferToResponse(transfer))
}

func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if err := validator.ValidateAccountID(accountID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_account_id")
		return
	}
	limit := queryInt(r, "limit", 20, 100)
	offset := queryInt(r, "offset", 0, 1<<30)

	transfers, err := h.transfers.ListByAccount(r.Context(), accountID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transfers")
		return
	}
	responses := make([]transferResponse, 0, len(transfers))
	for _, transfer := range transfers {
		responses = append(responses, transferToResponse(transfer))
	}
	respondJSON(w, http.StatusOK, responses)
}

func queryInt(r *http.Request, name string, fallback, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 || value > max {
		return fallback
	}
	return value
}
