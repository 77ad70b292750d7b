package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/moneyezy-bot/internal/entity/event"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
)

func Test_Producer_ShouldPublishJSONKeyedByUser(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, cfg)

	var sent []byte
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		sent = val
		return nil
	})

	p := newProducer(mock, "transaction-events")
	ev := event.TransactionEvent{
		Kind:          event.Updated,
		UserID:        42,
		TransactionID: 7,
		Transaction:   &transaction.Transaction{ID: 7, Title: "Coffee"},
		At:            time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishTransactionEvent(context.Background(), ev))
	require.NoError(t, mock.Close())

	var got event.TransactionEvent
	require.NoError(t, json.Unmarshal(sent, &got))
	assert.Equal(t, ev, got)
}

func Test_Producer_ShouldReturnSendError(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := newProducer(mock, "transaction-events")
	err := p.PublishTransactionEvent(context.Background(), event.TransactionEvent{Kind: event.Deleted})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

type recordingHandler struct {
	events []event.TransactionEvent
	err    error
}

func (h *recordingHandler) HandleTransactionEvent(_ context.Context, ev event.TransactionEvent) error {
	h.events = append(h.events, ev)
	return h.err
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	marked []int64
}

func (s *fakeSession) Context() context.Context { return context.Background() }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func claimOf(values ...string) *fakeClaim {
	ch := make(chan *sarama.ConsumerMessage, len(values))
	for i, v := range values {
		ch <- &sarama.ConsumerMessage{Offset: int64(i), Value: []byte(v)}
	}
	close(ch)
	return &fakeClaim{messages: ch}
}

const deletedEvent = `{"kind":"deleted","user_id":1,"transaction_id":3}`

func Test_Consumer_ShouldSkipPoisonMessages(t *testing.T) {
	h := &recordingHandler{}
	c := &Consumer{handler: h}

	assert.NoError(t, c.processMessage(context.Background(), &sarama.ConsumerMessage{Value: []byte("{broken")}))
	assert.NoError(t, c.processMessage(context.Background(), &sarama.ConsumerMessage{Value: []byte(deletedEvent)}))

	require.Len(t, h.events, 1)
	assert.Equal(t, event.Deleted, h.events[0].Kind)
	assert.Equal(t, int64(3), h.events[0].TransactionID)
}

func Test_Consumer_ShouldMarkInvalidEvents(t *testing.T) {
	h := &recordingHandler{err: errors.Wrap(event.ErrInvalid, "missing ids")}
	c := &Consumer{handler: h}
	session := &fakeSession{}

	require.NoError(t, c.ConsumeClaim(session, claimOf("{broken", deletedEvent)))
	assert.Equal(t, []int64{0, 1}, session.marked)
}

func Test_Consumer_TransientFailureShouldLeaveMessageUnmarked(t *testing.T) {
	h := &recordingHandler{err: errors.New("connection refused")}
	c := &Consumer{handler: h}
	session := &fakeSession{}

	err := c.ConsumeClaim(session, claimOf("{broken", deletedEvent, deletedEvent))
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, []int64{0}, session.marked)
	assert.Len(t, h.events, 1)
}
