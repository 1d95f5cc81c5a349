// Package events publishes account lifecycle events.
package events

import (
	"context"
	"errors"
	"time"

	"accountd/internal/account/models"
	"accountd/pkg/domain"
)

// Type names a lifecycle event.
type Type string

const (
	TypeCreated  Type = "account_created"
	TypeVerified Type = "account_verified"
	TypeDeleted  Type = "account_deleted"
	TypeImported Type = "account_imported"
)

// Event is emitted after a lifecycle change has been persisted. It carries no
// address: downstream consumers only learn whether one was supplied.
type Event struct {
	Type       Type             `json:"type"`
	AccountID  domain.AccountID `json:"account_id"`
	Status     models.Status    `json:"status"`
	Name       domain.Name      `json:"name"`
	HasAddress bool             `json:"has_address"`
	OccurredAt time.Time        `json:"occurred_at"`
	RequestID  string           `json:"request_id,omitempty"`
}

// ForRecord builds an event of type t describing rec.
func ForRecord(t Type, rec *models.AccountRecord, requestID string) Event {
	hasAddress := false
	if v, ok := rec.Account.(models.VerifiedAccount); ok {
		hasAddress = v.Address().IsPresent()
	}
	return Event{
		Type:       t,
		AccountID:  rec.ID,
		Status:     rec.Status(),
		Name:       rec.Account.Name(),
		HasAddress: hasAddress,
		OccurredAt: rec.UpdatedAt,
		RequestID:  requestID,
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
