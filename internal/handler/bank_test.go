package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunhanduc2007-netizen/projects-sub000/internal/bank"
)

type mockBankRepository struct {
	getPrimaryFunc func(ctx context.Context) (*bank.Account, error)
}

func (m *mockBankRepository) GetPrimary(ctx context.Context) (*bank.Account, error) {
	return m.getPrimaryFunc(ctx)
}

func TestBankHandler_GetBankAccount(t *testing.T) {
	tests := []struct {
		name       string
		getPrimary func(ctx context.Context) (*bank.Account, error)
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name: "success_returns_display_fields_only",
			getPrimary: func(ctx context.Context) (*bank.Account, error) {
				return &bank.Account{
					BankName:      "Vietcombank",
					BankCode:      "VCB",
					AccountNumber: "0123456789",
					AccountHolder: "CLB",
					IsPrimary:     true,
					IsActive:      true,
				}, nil
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Vietcombank", body["bank_name"])
				assert.Equal(t, "0123456789", body["account_number"])
				assert.NotContains(t, body, "is_primary")
				assert.NotContains(t, body, "id")
			},
		},
		{
			name: "not_configured",
			getPrimary: func(ctx context.Context) (*bank.Account, error) {
				return nil, bank.ErrNoPrimaryAccount
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "repository_error",
			getPrimary: func(ctx context.Context) (*bank.Account, error) {
				return nil, errors.New("connection reset")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBankHandler(&mockBankRepository{getPrimaryFunc: tt.getPrimary})

			r := chi.NewRouter()
			r.Get("/bank-account", h.GetBankAccount)

			req := httptest.NewRequest(http.MethodGet, "/bank-account", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.check != nil {
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				tt.check(t, body)
			}
		})
	}
}
