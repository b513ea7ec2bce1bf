package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/bank"
)

type BankHandler struct {
	repo bank.Repository
}

func NewBankHandler(repo bank.Repository) *BankHandler {
	return &BankHandler{repo: repo}
}

// GetBankAccount returns the primary receiving account's display fields.
func (h *BankHandler) GetBankAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := h.repo.GetPrimary(r.Context())
	if err != nil {
		if errors.Is(err, bank.ErrNoPrimaryAccount) {
			respondWithError(w, http.StatusNotFound, "no bank account configured")
			return
		}
		log.Error().Err(err).Msg("Failed to get bank account")
		respondWithError(w, http.StatusInternalServerError, "failed to get bank account")
		return
	}

	respondWithJSON(w, http.StatusOK, acct.Public())
}
