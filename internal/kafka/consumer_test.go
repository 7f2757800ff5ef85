package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReader struct {
	mock.Mock
}

func (m *MockReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	args := m.Called(ctx)
	return args.Get(0).(kafka.Message), args.Error(1)
}

func (m *MockReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *MockReader) Close() error {
	return m.Called().Error(0)
}

func TestConsumer_CommitsAfterHandler(t *testing.T) {
	r := &MockReader{}
	c := &Consumer{reader: r}
	ctx := context.Background()
	first := kafka.Message{Offset: 10}
	second := kafka.Message{Offset: 11}

	r.On("FetchMessage", ctx).Return(first, nil).Once()
	r.On("FetchMessage", ctx).Return(second, nil).Once()
	r.On("FetchMessage", ctx).Return(kafka.Message{}, context.Canceled).Once()
	r.On("CommitMessages", ctx, []kafka.Message{first}).Return(nil).Once()
	r.On("CommitMessages", ctx, []kafka.Message{second}).Return(nil).Once()

	var handled []int64
	err := c.Consume(ctx, func(_ context.Context, msg kafka.Message) error {
		handled = append(handled, msg.Offset)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, handled)
	r.AssertExpectations(t)
}

func TestConsumer_HandlerErrorLeavesOffsetUncommitted(t *testing.T) {
	r := &MockReader{}
	c := &Consumer{reader: r}
	ctx := context.Background()

	r.On("FetchMessage", ctx).Return(kafka.Message{Offset: 4}, nil).Once()

	err := c.Consume(ctx, func(context.Context, kafka.Message) error {
		return errors.New("db unavailable")
	})

	assert.ErrorContains(t, err, "handle offset 4")
	r.AssertNotCalled(t, "CommitMessages", mock.Anything, mock.Anything)
}

func TestConsumer_FetchError(t *testing.T) {
	r := &MockReader{}
	c := &Consumer{reader: r}

	r.On("FetchMessage", mock.Anything).Return(kafka.Message{}, errors.New("group coordinator not available")).Once()

	err := c.Consume(context.Background(), func(context.Context, kafka.Message) error { return nil })

	assert.ErrorContains(t, err, "group coordinator not available")
}

func TestDecodeEvent_TypeFromHeader(t *testing.T) {
	msg := kafka.Message{
		Value:   []byte(`{"id":"e1","reference":"ABCD1234"}`),
		Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(EventBookingCancelled)}},
	}

	got, err := DecodeEvent(msg)

	require.NoError(t, err)
	assert.Equal(t, EventBookingCancelled, got.Type)
	assert.Equal(t, EventBookingCancelled, EventType(msg))
	assert.Empty(t, EventType(kafka.Message{}))
}

func TestConsumer_CloseNil(t *testing.T) {
	var c *Consumer
	assert.NoError(t, c.Close())
}
