package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
)

func TestBus_SubscribeAndPublish(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus(zap.NewNop())
	first, cancelFirst := bus.Subscribe(4)
	second, cancelSecond := bus.Subscribe(4)
	defer cancelSecond()

	require.NoError(t, bus.Publish(context.Background(), domain.ProductDeleted{ProductID: "1"}))

	assert.Equal(t, domain.ProductDeleted{ProductID: "1"}, <-first)
	assert.Equal(t, domain.ProductDeleted{ProductID: "1"}, <-second)

	cancelFirst()
	cancelFirst()
	_, ok := <-first
	assert.False(t, ok)

	require.NoError(t, bus.Publish(context.Background(), domain.CatalogSeeded{Products: 2}))
	assert.Equal(t, domain.CatalogSeeded{Products: 2}, <-second)
}

func TestBus_DropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus(nil)
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, domain.ProductDeleted{ProductID: "a"}))
	require.NoError(t, bus.Publish(ctx, domain.ProductDeleted{ProductID: "b"}))

	assert.Equal(t, domain.ProductDeleted{ProductID: "a"}, <-ch)
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %v", e)
	default:
	}
}

func TestBus_Close(t *testing.T) {
	bus := NewBus(nil)
	ch, cancel := bus.Subscribe(1)

	bus.Close()
	_, ok := <-ch
	assert.False(t, ok)

	cancel()
	assert.NoError(t, bus.Publish(context.Background(), domain.CatalogSeeded{}))

	late, _ := bus.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}

type recordingWriter struct {
	msgs []kafkaGo.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisher_Envelope(t *testing.T) {
	w := &recordingWriter{}
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	pub := &KafkaPublisher{writer: w, now: func() time.Time { return at }}

	err := pub.Publish(context.Background(), domain.OrderPlaced{
		Order:          domain.Order{ID: "o1", ProductID: "1", Size: "M", InstagramUsername: "alice"},
		RemainingStock: 7,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order.placed", string(w.msgs[0].Key))

	var got struct {
		Type       string    `json:"type"`
		OccurredAt time.Time `json:"occurred_at"`
		Payload    struct {
			Order          domain.Order `json:"order"`
			RemainingStock int          `json:"remaining_stock"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "order.placed", got.Type)
	assert.True(t, at.Equal(got.OccurredAt))
	assert.Equal(t, "alice", got.Payload.Order.InstagramUsername)
	assert.Equal(t, 7, got.Payload.RemainingStock)
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(ctx context.Context, event domain.Event) error { return f.err }

func TestFanout(t *testing.T) {
	bus := NewBus(nil)
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	boom := errors.New("broker down")
	f := Fanout{failingPublisher{err: boom}, bus}

	err := f.Publish(context.Background(), domain.SiteConfigUpdated{Config: domain.SiteConfig{Name: "x"}})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.SiteConfigUpdated{Config: domain.SiteConfig{Name: "x"}}, <-ch)

	assert.NoError(t, Fanout{}.Publish(context.Background(), domain.CatalogSeeded{}))
}
