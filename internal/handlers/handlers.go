package handlers

import (
	"encoding/json"
	"net/http"

	"ledger/internal/config"
	"ledger/internal/db"
	"ledger/internal/middleware"
	"ledger/internal/websocket"
)

type Handler struct {
	cfg       config.Config
	txRunner  db.TxRunner
	accounts  AccountStore
	balances  BalanceStore
	transfers TransferStore
	service   TransferService
	cache     ReadCache
	limiter   middleware.Limiter
	hub       *websocket.Hub
}

func New(cfg config.Config, txRunner db.TxRunner, accounts AccountStore, balances BalanceStore, transfers TransferStore, service TransferService, cache ReadCache, limiter middleware.Limiter, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:       cfg,
		txRunner:  txRunner,
		accounts:  accounts,
		balances:  balances,
		transfers: transfers,
		service:   service,
		cache:     cache,
		limiter:   limiter,
		hub:       hub,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
