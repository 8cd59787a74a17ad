package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ledger/internal/money"
	"ledger/internal/validator"
	"ledger/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type createAccountRequest struct {
	Currency       string `json:"currency"`
	OpeningBalance string `json:"opening_balance"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateCurrency(req.Currency); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_currency")
		return
	}
	opening := decimal.Zero
	if req.OpeningBalance != "" {
		parsed, err := money.ParseAmount(req.OpeningBalance)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_opening_balance")
			return
		}
		opening = parsed
	}

	accountID, err := uuid.NewV7()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create account")
		return
	}
	balanceID, err := uuid.NewV7()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create account")
		return
	}

	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.accounts.Create(r.Context(), tx, accountID.String(), req.Currency); err != nil {
			return err
		}
		return h.balances.Create(r.Context(), tx, balanceID.String(), accountID.String(), opening)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create account")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"id":        accountID.String(),
		"currency":  req.Currency,
		"available": money.FormatAmount(opening),
	})
}

type balanceResponse struct {
	AccountID string `json:"account_id"`
	Available string `json:"available"`
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if err := validator.ValidateAccountID(accountID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_account_id")
		return
	}

	cacheKey := "balance_" + accountID
	if cached, ok, err := h.cache.GetString(r.Context(), cacheKey); err == nil && ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(cached))
		return
	}

	balance, err := h.balances.GetByAccountID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "balance_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load balance")
		return
	}
	response := balanceResponse{
		AccountID: accountID,
		Available: money.FormatAmount(balance.Available),
	}
	if payload, err := json.Marshal(response); err == nil {
		if err := h.cache.SetString(r.Context(), cacheKey, string(payload), h.cfg.BalanceCacheTTL); err != nil {
			log.Printf("failed to cache balance for %s: %v", accountID, err)
		}
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) WSAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if err := validator.ValidateAccountID(accountID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_account_id")
		return
	}
	if _, err := h.accounts.GetByID(r.Context(), accountID); err != nil {
		respondError(w, http.StatusNotFound, "account_not_found")
		return
	}
	websocket.ServeWS(w, r, h.hub, accountID)
}
