package service

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/stay-booking/internal/model"
	"github.com/iliyamo/stay-booking/internal/queue"
)

// unresponsiveBroker accepts connections and never speaks AMQP.
func unresponsiveBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	return "amqp://guest:guest@" + ln.Addr().String() + "/"
}

func TestReservationAdd_ReturnsPromptlyWhenBrokerHangs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := newMemStore()
	store.addStay(model.Stay{ID: 1, Name: "A", GuestNumber: 2, Host: "hank"})
	pub := queue.NewPublisher(unresponsiveBroker(t), "reservation.events", 300*time.Millisecond)
	svc := NewReservationService(store, store, pub, zap.New(core))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	start := time.Now()
	res, err := svc.Add(ctx, 1, "gina", dateRange(t, "2030-06-01", "2030-06-03"))

	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.True(t, store.nightTaken(1, "2030-06-01"))

	// one warning per failed publish
	warns := logs.FilterMessage("reservation event not published").All()
	assert.Len(t, warns, 1)
	assert.Equal(t, 1, logs.Len())
}
