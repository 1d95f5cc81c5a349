package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"accountd/internal/account/arbitrary"
	"accountd/internal/account/events"
	accountmetrics "accountd/internal/account/metrics"
	"accountd/internal/account/models"
	"accountd/pkg/domain"
	dErrors "accountd/pkg/domain-errors"
	"accountd/pkg/platform/sentinel"
	"accountd/pkg/requestcontext"
)

const (
	defaultSampleMax = 100
	tracerName       = "accountd/internal/account/service"
)

// AccountStore persists account records.
type AccountStore interface {
	Create(ctx context.Context, record *models.AccountRecord) error
	FindByID(ctx context.Context, id domain.AccountID) (*models.AccountRecord, error)
	ListByStatus(ctx context.Context, statuses ...models.Status) ([]*models.AccountRecord, error)
	Execute(ctx context.Context, id domain.AccountID, fn func(current models.AccountRecord) (*models.AccountRecord, error)) (*models.AccountRecord, error)
}

// EventPublisher delivers lifecycle events after they are persisted.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service orchestrates the account lifecycle over a store.
//
// Transitions are delegated to the pure functions in models; the service only
// loads the current variant, checks it is the one the transition accepts, and
// replaces it. There is no Created -> Deleted path and no way back from
// Deleted.
type Service struct {
	accounts     AccountStore
	publisher    EventPublisher
	logger       *slog.Logger
	metrics      *accountmetrics.Metrics
	tracer       trace.Tracer
	sampleMax    int
	generatorOps []arbitrary.Option
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *accountmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithSampleMax bounds the n accepted by Sample.
func WithSampleMax(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sampleMax = n
		}
	}
}

// WithGeneratorOptions are applied to every generator Sample builds.
func WithGeneratorOptions(opts ...arbitrary.Option) Option {
	return func(s *Service) {
		s.generatorOps = append(s.generatorOps, opts...)
	}
}

// New constructs a Service.
func New(accounts AccountStore, opts ...Option) (*Service, error) {
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	s := &Service{
		accounts:  accounts,
		logger:    slog.New(slog.DiscardHandler),
		tracer:    otel.Tracer(tracerName),
		sampleMax: defaultSampleMax,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register starts a new lifecycle in the Created state.
func (s *Service) Register(ctx context.Context, name string) (_ *models.AccountRecord, err error) {
	ctx, end := s.begin(ctx, "register")
	defer func() { end(err) }()

	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}

	rec := models.NewAccountRecord(domain.NewAccountID(), models.NewCreatedAccount(domain.NewName(name)), requestcontext.Now(ctx))
	if err := s.accounts.Create(ctx, rec); err != nil {
		return nil, wrapStoreErr(err, "failed to create account")
	}

	s.recordTransition(ctx, "register", events.TypeCreated, rec)
	return rec, nil
}

// Import decodes an untyped account document and stores it as-is. Any variant
// is accepted, including Deleted: the document is data, not a transition.
func (s *Service) Import(ctx context.Context, raw any) (_ *models.AccountRecord, err error) {
	ctx, end := s.begin(ctx, "import")
	defer func() { end(err) }()

	acct, err := models.Decode(raw)
	if err != nil {
		var de *models.DecodeError
		if errors.As(err, &de) && s.metrics != nil {
			s.metrics.IncrementDecodeFailure(string(de.Reason))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid account document")
	}

	rec := models.NewAccountRecord(domain.NewAccountID(), acct, requestcontext.Now(ctx))
	if err := s.accounts.Create(ctx, rec); err != nil {
		return nil, wrapStoreErr(err, "failed to import account")
	}

	s.recordTransition(ctx, "import", events.TypeImported, rec)
	return rec, nil
}

// Get returns one account record.
func (s *Service) Get(ctx context.Context, id domain.AccountID) (_ *models.AccountRecord, err error) {
	ctx, end := s.begin(ctx, "get", attribute.String("account.id", id.String()))
	defer func() { end(err) }()

	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "account ID is required")
	}
	rec, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load account")
	}
	return rec, nil
}

// List returns records in the given statuses, or all records when none are given.
func (s *Service) List(ctx context.Context, statuses ...models.Status) (_ []*models.AccountRecord, err error) {
	ctx, end := s.begin(ctx, "list")
	defer func() { end(err) }()

	for _, st := range statuses {
		if !st.IsValid() {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown status %q", st))
		}
	}
	recs, err := s.accounts.ListByStatus(ctx, statuses...)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to list accounts")
	}
	return recs, nil
}

// Verify moves a Created account to Verified with an optional address.
func (s *Service) Verify(ctx context.Context, id domain.AccountID, address domain.Option[domain.Address]) (_ *models.AccountRecord, err error) {
	ctx, end := s.begin(ctx, "verify", attribute.String("account.id", id.String()))
	defer func() { end(err) }()

	now := requestcontext.Now(ctx)
	rec, err := s.accounts.Execute(ctx, id, func(current models.AccountRecord) (*models.AccountRecord, error) {
		created, ok := current.Account.(models.CreatedAccount)
		if !ok {
			return nil, invalidTransition(current.Status(), models.StatusVerified)
		}
		current.Account = models.Verify(created, address)
		current.UpdatedAt = now
		return &current, nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to verify account")
	}

	s.recordTransition(ctx, "verify", events.TypeVerified, rec)
	return rec, nil
}

// Delete moves a Verified account to the terminal Deleted state.
func (s *Service) Delete(ctx context.Context, id domain.AccountID) (_ *models.AccountRecord, err error) {
	ctx, end := s.begin(ctx, "delete", attribute.String("account.id", id.String()))
	defer func() { end(err) }()

	now := requestcontext.Now(ctx)
	rec, err := s.accounts.Execute(ctx, id, func(current models.AccountRecord) (*models.AccountRecord, error) {
		verified, ok := current.Account.(models.VerifiedAccount)
		if !ok {
			return nil, invalidTransition(current.Status(), models.StatusDeleted)
		}
		current.Account = models.Delete(verified)
		current.UpdatedAt = now
		return &current, nil
	})
	if err != nil {
		return nil, wrapStoreErr(err, "failed to delete account")
	}

	s.recordTransition(ctx, "delete", events.TypeDeleted, rec)
	return rec, nil
}

// Sample draws n random valid accounts. Nothing is stored.
func (s *Service) Sample(ctx context.Context, n int, smallNames bool) (_ []models.Account, err error) {
	_, end := s.begin(ctx, "sample", attribute.Int("sample.n", n))
	defer func() { end(err) }()

	if n < 0 || n > s.sampleMax {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("n must be between 0 and %d", s.sampleMax))
	}
	opts := append([]arbitrary.Option{}, s.generatorOps...)
	if smallNames {
		opts = append(opts, arbitrary.WithName(arbitrary.SmallName()))
	}
	accounts := arbitrary.New(opts...).Sample(n)
	if s.metrics != nil {
		s.metrics.AddSampled(len(accounts))
	}
	return accounts, nil
}

// begin opens a span and returns a func that closes it and records duration.
func (s *Service) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "account."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, dErrors.MessageOf(err))
		}
		span.End()
		if s.metrics != nil {
			s.metrics.ObserveOperation(op, start)
		}
	}
}

// recordTransition publishes the event and bumps counters. Publishing is best
// effort: the record is already persisted, so a delivery failure is logged.
func (s *Service) recordTransition(ctx context.Context, op string, t events.Type, rec *models.AccountRecord) {
	if s.metrics != nil {
		s.metrics.IncrementTransition(op, rec.Status().String())
	}
	s.logger.InfoContext(ctx, "account lifecycle change",
		"operation", op,
		"account_id", rec.ID.String(),
		"status", rec.Status().String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.ForRecord(t, rec, requestcontext.RequestID(ctx))); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account event",
			"event_type", string(t),
			"account_id", rec.ID.String(),
			"error", err,
		)
	}
}

func invalidTransition(from, to models.Status) error {
	return dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict,
		fmt.Sprintf("cannot move a %s account to %s", from, to))
}

func wrapStoreErr(err error, msg string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "account not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "account already exists")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
