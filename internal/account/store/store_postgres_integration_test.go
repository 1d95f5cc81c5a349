//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"accountd/internal/account/models"
	"accountd/internal/account/store"
	"accountd/pkg/domain"
	"accountd/pkg/platform/sentinel"
	"accountd/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "accounts"))
}

func newRecord(name string) *models.AccountRecord {
	return models.NewAccountRecord(domain.NewAccountID(), models.NewCreatedAccount(domain.NewName(name)), time.Now().UTC().Truncate(time.Microsecond))
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	rec := newRecord("Oscar")
	s.Require().NoError(s.store.Create(ctx, rec))

	found, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(rec.Account, found.Account)
	s.True(rec.CreatedAt.Equal(found.CreatedAt))

	s.ErrorIs(s.store.Create(ctx, rec), sentinel.ErrAlreadyUsed)

	_, err = s.store.FindByID(ctx, domain.NewAccountID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestLifecycleRoundTrip() {
	ctx := context.Background()
	rec := newRecord("Oscar")
	s.Require().NoError(s.store.Create(ctx, rec))

	verified, err := s.store.Execute(ctx, rec.ID, func(current models.AccountRecord) (*models.AccountRecord, error) {
		current.Account = models.Verify(current.Account.(models.CreatedAccount), domain.None[domain.Address]())
		return &current, nil
	})
	s.Require().NoError(err)
	s.Equal(models.StatusVerified, verified.Status())

	found, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	v, ok := found.Account.(models.VerifiedAccount)
	s.Require().True(ok)
	s.False(v.Address().IsPresent())

	listed, err := s.store.ListByStatus(ctx, models.StatusVerified)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(rec.ID, listed[0].ID)

	none, err := s.store.ListByStatus(ctx, models.StatusDeleted)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *PostgresStoreSuite) TestConcurrentTransitionsSerialize() {
	ctx := context.Background()
	rec := newRecord("Oscar")
	s.Require().NoError(s.store.Create(ctx, rec))

	const goroutines = 20
	var wg sync.WaitGroup
	var successCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, rec.ID, func(current models.AccountRecord) (*models.AccountRecord, error) {
				created, ok := current.Account.(models.CreatedAccount)
				if !ok {
					return nil, sentinel.ErrInvalidState
				}
				current.Account = models.Verify(created, domain.None[domain.Address]())
				return &current, nil
			})
			if err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), successCount.Load())
}
