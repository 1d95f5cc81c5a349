package handler

import (
	"time"

	"accountd/internal/account/models"
)

// AccountResponse wraps the account document with its storage metadata. The
// account object has the same shape the import endpoint accepts.
type AccountResponse struct {
	ID        string         `json:"id"`
	Account   map[string]any `json:"account"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Total    int               `json:"total"`
}

type SampleResponse struct {
	Accounts []map[string]any `json:"accounts"`
}

func toAccountResponse(rec *models.AccountRecord) AccountResponse {
	return AccountResponse{
		ID:        rec.ID.String(),
		Account:   models.Encode(rec.Account),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func toListResponse(recs []*models.AccountRecord) ListResponse {
	out := make([]AccountResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toAccountResponse(rec))
	}
	return ListResponse{Accounts: out, Total: len(out)}
}

func toSampleResponse(accounts []models.Account) SampleResponse {
	out := make([]map[string]any, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, models.Encode(acct))
	}
	return SampleResponse{Accounts: out}
}
