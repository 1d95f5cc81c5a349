package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"accountd/internal/account/handler/mocks"
	"accountd/internal/account/models"
	"accountd/internal/platform/middleware"
	"accountd/pkg/domain"
	dErrors "accountd/pkg/domain-errors"
	"accountd/pkg/requestcontext"
	"accountd/pkg/testutil"
)

type AccountHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  http.Handler
	now     time.Time
}

func TestAccountHandlerSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerSuite))
}

func (s *AccountHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	r := chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)), nil).Register(r)
	s.router = r
}

func (s *AccountHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AccountHandlerSuite) record(acct models.Account) *models.AccountRecord {
	return models.NewAccountRecord(domain.NewAccountID(), acct, s.now)
}

func (s *AccountHandlerSuite) TestRegister() {
	s.Run("201 with the Created document", func() {
		rec := s.record(models.NewCreatedAccount("Ada"))
		s.service.EXPECT().Register(gomock.Any(), "Ada").Return(rec, nil)

		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/accounts", RegisterRequest{Name: "Ada"}))

		s.Equal(http.StatusCreated, rr.Code)
		s.NotEmpty(rr.Header().Get(middleware.HeaderRequestID))
		resp := testutil.DecodeJSON[AccountResponse](s.T(), rr)
		s.Equal(rec.ID.String(), resp.ID)
		s.Equal(map[string]any{"name": "Ada", "status": "Created"}, resp.Account)
	})

	s.Run("malformed body is a bad request", func() {
		rr := testutil.Do(s.router, testutil.NewRawRequest(s.T(), http.MethodPost, "/accounts", `{"name":`))
		testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("service validation error is surfaced", func() {
		s.service.EXPECT().Register(gomock.Any(), "").Return(nil, dErrors.New(dErrors.CodeValidation, "name is required"))

		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/accounts", RegisterRequest{}))
		body := testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
		s.Equal("name is required", body["error_description"])
	})

	s.Run("internal errors hide their description", func() {
		s.service.EXPECT().Register(gomock.Any(), "Ada").Return(nil, dErrors.New(dErrors.CodeInternal, "db password is hunter2"))

		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/accounts", RegisterRequest{Name: "Ada"}))
		body := testutil.AssertError(s.T(), rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
		s.Empty(body["error_description"])
	})
}

func (s *AccountHandlerSuite) TestImport() {
	s.Run("passes the untyped document through", func() {
		rec := s.record(models.Delete(models.Verify(models.NewCreatedAccount("Ada"), domain.None[domain.Address]())))
		s.service.EXPECT().Import(gomock.Any(), map[string]any{"status": "Deleted", "name": "Ada"}).Return(rec, nil)

		rr := testutil.Do(s.router, testutil.NewRawRequest(s.T(), http.MethodPost, "/accounts/import", `{"status":"Deleted","name":"Ada"}`))

		s.Equal(http.StatusCreated, rr.Code)
		resp := testutil.DecodeJSON[AccountResponse](s.T(), rr)
		s.Equal("Deleted", resp.Account["status"])
	})

	s.Run("decode failures carry the offending path", func() {
		_, decodeErr := models.Decode(map[string]any{"status": "Created", "name": 7.0})
		s.Require().Error(decodeErr)
		s.service.EXPECT().Import(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(decodeErr, dErrors.CodeValidation, "invalid account document"))

		rr := testutil.Do(s.router, testutil.NewRawRequest(s.T(), http.MethodPost, "/accounts/import", `{"status":"Created","name":7}`))
		body := testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
		s.Equal("name", body["path"])
	})
}

func (s *AccountHandlerSuite) TestGetAndList() {
	s.Run("get by id", func() {
		rec := s.record(models.NewCreatedAccount("Ada"))
		s.service.EXPECT().Get(gomock.Any(), rec.ID).Return(rec, nil)

		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/accounts/"+rec.ID.String(), nil))
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("invalid id is a bad request", func() {
		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/accounts/not-a-uuid", nil))
		testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("not found", func() {
		id := domain.NewAccountID()
		s.service.EXPECT().Get(gomock.Any(), id).Return(nil, dErrors.New(dErrors.CodeNotFound, "account not found"))

		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/accounts/"+id.String(), nil))
		testutil.AssertError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	s.Run("list forwards distinct status filters", func() {
		recs := []*models.AccountRecord{s.record(models.NewCreatedAccount("Ada"))}
		s.service.EXPECT().List(gomock.Any(), models.StatusCreated, models.StatusDeleted).Return(recs, nil)

		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/accounts?status=Created&status=Deleted&status=Created", nil))
		s.Equal(http.StatusOK, rr.Code)
		resp := testutil.DecodeJSON[ListResponse](s.T(), rr)
		s.Equal(1, resp.Total)
	})

	s.Run("unknown status filter is rejected", func() {
		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/accounts?status=created", nil))
		testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *AccountHandlerSuite) TestVerify() {
	id := domain.NewAccountID()
	verified := models.NewAccountRecord(id, models.Verify(models.NewCreatedAccount("Ada"), domain.Some(domain.NewAddress("1 Main St"))), s.now)

	s.Run("string address", func() {
		s.service.EXPECT().Verify(gomock.Any(), id, domain.Some(domain.NewAddress("1 Main St"))).Return(verified, nil)

		rr := testutil.Do(s.router, testutil.NewRawRequest(s.T(), http.MethodPost, "/accounts/"+id.String()+"/verify", `{"address":"1 Main St"}`))
		s.Equal(http.StatusOK, rr.Code)
		resp := testutil.DecodeJSON[AccountResponse](s.T(), rr)
		s.Equal("1 Main St", resp.Account["address"])
	})

	s.Run("null address", func() {
		s.service.EXPECT().Verify(gomock.Any(), id, domain.None[domain.Address]()).Return(verified, nil)

		rr := testutil.Do(s.router, testutil.NewRawRequest(s.T(), http.MethodPost, "/accounts/"+id.String()+"/verify", `{"address":null}`))
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("address key is required", func() {
		rr := testutil.Do(s.router, testutil.NewRawRequest(s.T(), http.MethodPost, "/accounts/"+id.String()+"/verify", `{}`))
		testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("non-string address is rejected", func() {
		rr := testutil.Do(s.router, testutil.NewRawRequest(s.T(), http.MethodPost, "/accounts/"+id.String()+"/verify", `{"address":42}`))
		testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("wrong state is a conflict", func() {
		s.service.EXPECT().Verify(gomock.Any(), id, gomock.Any()).Return(nil, dErrors.New(dErrors.CodeConflict, "cannot move a Deleted account to Verified"))

		rr := testutil.Do(s.router, testutil.NewRawRequest(s.T(), http.MethodPost, "/accounts/"+id.String()+"/verify", `{"address":null}`))
		testutil.AssertError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
	})
}

func (s *AccountHandlerSuite) TestDelete() {
	rec := s.record(models.Delete(models.Verify(models.NewCreatedAccount("Ada"), domain.None[domain.Address]())))
	s.service.EXPECT().Delete(gomock.Any(), rec.ID).Return(rec, nil)

	rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/accounts/"+rec.ID.String()+"/delete", nil))

	s.Equal(http.StatusOK, rr.Code)
	resp := testutil.DecodeJSON[AccountResponse](s.T(), rr)
	s.Equal(map[string]any{"name": "Ada", "status": "Deleted"}, resp.Account)
}

func (s *AccountHandlerSuite) TestSample() {
	s.Run("defaults", func() {
		s.service.EXPECT().Sample(gomock.Any(), 10, false).Return([]models.Account{models.NewCreatedAccount("Bob")}, nil)

		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/accounts/sample", nil))
		s.Equal(http.StatusOK, rr.Code)
		resp := testutil.DecodeJSON[SampleResponse](s.T(), rr)
		s.Len(resp.Accounts, 1)
	})

	s.Run("explicit n and small names", func() {
		s.service.EXPECT().Sample(gomock.Any(), 3, true).Return([]models.Account{}, nil)

		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/accounts/sample?n=3&small_names=true", nil))
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("non-numeric n", func() {
		rr := testutil.Do(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/accounts/sample?n=many", nil))
		testutil.AssertError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *AccountHandlerSuite) TestHandlerMethodsUseRequestScope() {
	rec := s.record(models.NewCreatedAccount("Ada"))
	s.service.EXPECT().Register(gomock.Any(), "Ada").DoAndReturn(
		func(ctx context.Context, _ string) (*models.AccountRecord, error) {
			s.Equal("req-42", requestcontext.RequestID(ctx))
			s.Equal(s.now, requestcontext.Now(ctx))
			return rec, nil
		})

	h := New(s.service, nil, nil)
	req := testutil.WithRequestScope(
		testutil.NewJSONRequest(s.T(), http.MethodPost, "/accounts", RegisterRequest{Name: "Ada"}),
		"req-42", s.now,
	)
	rr := testutil.Do(http.HandlerFunc(h.handleRegister), req)
	s.Equal(http.StatusCreated, rr.Code)
}
