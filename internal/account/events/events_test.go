package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accountd/internal/account/models"
	"accountd/pkg/domain"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestForRecord(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	id := domain.NewAccountID()

	verified := models.NewAccountRecord(id, models.Verify(models.NewCreatedAccount("Oscar"), domain.Some(domain.NewAddress("52 Avenue Trudaine"))), now)
	e := ForRecord(TypeVerified, verified, "req-1")
	assert.Equal(t, TypeVerified, e.Type)
	assert.Equal(t, id, e.AccountID)
	assert.Equal(t, models.StatusVerified, e.Status)
	assert.True(t, e.HasAddress)
	assert.Equal(t, now, e.OccurredAt)
	assert.Equal(t, "req-1", e.RequestID)

	created := models.NewAccountRecord(id, models.NewCreatedAccount("Oscar"), now)
	assert.False(t, ForRecord(TypeCreated, created, "").HasAddress)
}

func TestMultiPublishesToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	ok := &recordingPublisher{}
	failing := &recordingPublisher{err: boom}

	err := Multi{failing, ok}.Publish(context.Background(), Event{Type: TypeCreated})
	require.ErrorIs(t, err, boom)
	assert.Len(t, ok.events, 1)
	assert.Len(t, failing.events, 1)

	assert.NoError(t, Multi{ok}.Publish(context.Background(), Event{Type: TypeDeleted}))
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeDeleted, AccountID: domain.NewAccountID(), Status: models.StatusDeleted}))
	assert.Contains(t, buf.String(), `"msg":"account_deleted"`)
	assert.Contains(t, buf.String(), `"status":"Deleted"`)
	assert.NotContains(t, buf.String(), "address\":\"")
}

func TestNewKafkaPublisherValidatesConfig(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "accounts")
	assert.Error(t, err)
	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}
