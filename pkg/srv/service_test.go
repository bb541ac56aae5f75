package srv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, s)
}

type stopper struct {
	name string
	rec  *recorder
	err  error
}

func (s stopper) Start(context.Context) error { return nil }

func (s stopper) Shutdown(context.Context) error {
	s.rec.add(s.name)
	return s.err
}

func TestShutdownServices_ReverseOrder(t *testing.T) {
	rec := &recorder{}
	services := []Service{
		stopper{name: "first", rec: rec},
		stopper{name: "second", rec: rec, err: errors.New("ignored")},
		stopper{name: "third", rec: rec},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ShutdownServices(ctx, services)

	assert.Equal(t, []string{"third", "second", "first"}, rec.order, "a failing shutdown does not stop the rest")
}

type failingService struct{}

func (failingService) Start(context.Context) error    { return errors.New("boom") }
func (failingService) Shutdown(context.Context) error { return nil }

func TestStartServices_FailureCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartServices(ctx, cancel, []Service{failingService{}})

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled after start failure")
	}
}
