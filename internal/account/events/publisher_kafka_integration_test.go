//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"accountd/internal/account/events"
	"accountd/internal/account/models"
	"accountd/pkg/domain"
	"accountd/pkg/testutil/containers"
)

func TestKafkaPublisherDeliversKeyedEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	broker := containers.GetManager().GetRedpanda(t).Broker
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const topic = "account-lifecycle-test"
	pub, err := events.NewKafkaPublisher([]string{broker}, topic)
	require.NoError(t, err)
	defer pub.Close()
	require.NoError(t, pub.EnsureTopic(ctx, 1, 1))

	rec := models.NewAccountRecord(domain.NewAccountID(), models.NewCreatedAccount("Oscar"), time.Now())
	require.NoError(t, pub.Publish(ctx, events.ForRecord(events.TypeCreated, rec, "req-1")))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	var got []*kgo.Record
	fetches.EachRecord(func(r *kgo.Record) { got = append(got, r) })
	require.Len(t, got, 1)
	require.Equal(t, rec.ID.String(), string(got[0].Key))

	var decoded events.Event
	require.NoError(t, json.Unmarshal(got[0].Value, &decoded))
	require.Equal(t, events.TypeCreated, decoded.Type)
	require.Equal(t, rec.ID, decoded.AccountID)
}
