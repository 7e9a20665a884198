package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink_Record(t *testing.T) {
	w := &fakeWriter{}
	sink := &KafkaSink{writer: w}
	event := testEvent()

	require.NoError(t, sink.Record(context.Background(), event))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "Science Club", string(msg.Key))
	assert.Equal(t, event.OccurredAt, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "signup", string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)

	require.NoError(t, sink.Close())
	assert.True(t, w.closed)
}

func TestKafkaSink_RecordError(t *testing.T) {
	sink := &KafkaSink{writer: &fakeWriter{err: errors.New("leader not available")}}

	err := sink.Record(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka write event: leader not available")
}

func TestNewKafkaSink_ConfiguresWriter(t *testing.T) {
	sink := NewKafkaSink([]string{"localhost:9092"}, "registrations")

	w, ok := sink.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "registrations", w.Topic)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	require.NoError(t, sink.Close())
}
