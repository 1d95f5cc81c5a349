package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"accountd/internal/account/models"
	"accountd/internal/platform/metrics"
	"accountd/internal/platform/middleware"
	"accountd/pkg/domain"
	dErrors "accountd/pkg/domain-errors"
	"accountd/pkg/platform/httputil"
	platformstrings "accountd/pkg/platform/strings"
	"accountd/pkg/requestcontext"
)

const maxBodyBytes = 1 << 20

// Service defines the account operations exposed over HTTP.
type Service interface {
	Register(ctx context.Context, name string) (*models.AccountRecord, error)
	Import(ctx context.Context, raw any) (*models.AccountRecord, error)
	Get(ctx context.Context, id domain.AccountID) (*models.AccountRecord, error)
	List(ctx context.Context, statuses ...models.Status) ([]*models.AccountRecord, error)
	Verify(ctx context.Context, id domain.AccountID, address domain.Option[domain.Address]) (*models.AccountRecord, error)
	Delete(ctx context.Context, id domain.AccountID) (*models.AccountRecord, error)
	Sample(ctx context.Context, n int, smallNames bool) ([]models.Account, error)
}

// Handler handles account lifecycle endpoints.
type Handler struct {
	logger   *slog.Logger
	accounts Service
	metrics  *metrics.Metrics
}

// New creates a new account Handler. metrics may be nil.
func New(accounts Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		logger:   logger,
		accounts: accounts,
		metrics:  metrics,
	}
}

// Register registers the account routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	accountRouter := chi.NewRouter()
	accountRouter.Use(middleware.Recovery(h.logger))
	accountRouter.Use(middleware.RequestID)
	accountRouter.Use(middleware.RequestTime)
	accountRouter.Use(middleware.Logger(h.logger))
	accountRouter.Use(middleware.ContentTypeJSON)
	accountRouter.Use(middleware.Latency(h.metrics))
	accountRouter.Post("/accounts", h.handleRegister)
	accountRouter.Post("/accounts/import", h.handleImport)
	accountRouter.Get("/accounts", h.handleList)
	accountRouter.Get("/accounts/sample", h.handleSample)
	accountRouter.Get("/accounts/{id}", h.handleGet)
	accountRouter.Post("/accounts/{id}/verify", h.handleVerify)
	accountRouter.Post("/accounts/{id}/delete", h.handleDelete)

	r.Mount("/", accountRouter)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, "invalid register request", err)
		return
	}
	rec, err := h.accounts.Register(r.Context(), req.Name)
	if err != nil {
		h.fail(w, r, "failed to register account", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAccountResponse(rec))
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	var raw any
	if err := decodeBody(w, r, &raw); err != nil {
		h.fail(w, r, "invalid import request", err)
		return
	}
	rec, err := h.accounts.Import(r.Context(), raw)
	if err != nil {
		h.fail(w, r, "failed to import account", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAccountResponse(rec))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var statuses []models.Status
	for _, raw := range platformstrings.DedupeAndTrim(r.URL.Query()["status"]) {
		st, err := models.ParseStatus(raw)
		if err != nil {
			h.fail(w, r, "invalid status filter", dErrors.Wrap(err, dErrors.CodeBadRequest, "unknown status "+strconv.Quote(raw)))
			return
		}
		statuses = append(statuses, st)
	}
	recs, err := h.accounts.List(r.Context(), statuses...)
	if err != nil {
		h.fail(w, r, "failed to list accounts", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListResponse(recs))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "invalid account id", err)
		return
	}
	rec, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "failed to load account", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(rec))
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "invalid account id", err)
		return
	}
	var req VerifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, "invalid verify request", err)
		return
	}
	rec, err := h.accounts.Verify(r.Context(), id, req.Address)
	if err != nil {
		h.fail(w, r, "failed to verify account", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(rec))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "invalid account id", err)
		return
	}
	rec, err := h.accounts.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, "failed to delete account", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(rec))
}

func (h *Handler) handleSample(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n := 10
	if raw := q.Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, "invalid sample size", dErrors.New(dErrors.CodeBadRequest, "n must be an integer"))
			return
		}
		n = parsed
	}
	smallNames := false
	if raw := q.Get("small_names"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.fail(w, r, "invalid small_names flag", dErrors.New(dErrors.CodeBadRequest, "small_names must be a boolean"))
			return
		}
		smallNames = parsed
	}

	accounts, err := h.accounts.Sample(r.Context(), n, smallNames)
	if err != nil {
		h.fail(w, r, "failed to sample accounts", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSampleResponse(accounts))
}

// fail logs at warn for client errors and error otherwise, then writes err.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dErrors.Wrap(err, dErrors.CodeBadRequest, "request body too large")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
