package srv

import (
	"context"
	"errors"

	"github.com/sandevgo/pdfchat/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices launches every service in its own goroutine. A start failure
// is logged and reported through cancel so the host can unwind.
func StartServices(ctx context.Context, cancel context.CancelFunc, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msgf("%T failed to start", service)
				cancel()
			}
		}(service)
	}
}

// ShutdownServices blocks until ctx is done, then stops services in reverse order.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(context.WithoutCancel(ctx)); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
