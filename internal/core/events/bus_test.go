package events_test

import (
	"bytes"
	"context"
	stdErrors "errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/company-management/internal/core/events"
	"github.com/frahmantamala/company-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	It("delivers asynchronously and Wait drains the handlers", func() {
		var delivered atomic.Int32
		release := make(chan struct{})
		bus.Subscribe(events.EventTypeTaskAssigned, func(ctx context.Context, e events.Event) error {
			<-release
			delivered.Add(1)
			return nil
		})

		Expect(bus.Publish(context.Background(), events.NewTaskAssignedEvent("task-1", "company-1", "user-1", nil, "user-2"))).To(Succeed())
		Expect(delivered.Load()).To(BeZero())

		close(release)
		Expect(bus.Wait(context.Background())).To(Succeed())
		Expect(delivered.Load()).To(Equal(int32(1)))
	})

	It("detaches handlers from request cancellation", func() {
		var handlerErr atomic.Value
		bus.Subscribe(events.EventTypeCreditsUsed, func(ctx context.Context, e events.Event) error {
			handlerErr.Store(ctx.Err() == nil)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewCreditsUsedEvent("company-1", "txn-1", 10, 90))).To(Succeed())
		Expect(bus.Wait(context.Background())).To(Succeed())
		Expect(handlerErr.Load()).To(Equal(true))
	})

	It("gives up waiting when the context ends", func() {
		block := make(chan struct{})
		defer close(block)
		bus.Subscribe(events.EventTypeCreditsRecharged, func(context.Context, events.Event) error {
			<-block
			return nil
		})
		Expect(bus.Publish(context.Background(), events.NewCreditsRechargedEvent("company-1", "r-1", 10, 10))).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		Expect(bus.Wait(ctx)).To(MatchError(context.DeadlineExceeded))
	})

	It("stops PublishSync at the first failing handler", func() {
		var second atomic.Bool
		bus.Subscribe(events.EventTypeCreditsUsed, func(context.Context, events.Event) error {
			return stdErrors.New("boom")
		})
		bus.Subscribe(events.EventTypeCreditsUsed, func(context.Context, events.Event) error {
			second.Store(true)
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewCreditsUsedEvent("company-1", "txn-1", 10, 90))
		Expect(err).To(MatchError(ContainSubstring("boom")))
		Expect(second.Load()).To(BeFalse())
	})

	It("lists subscribed types in order", func() {
		events.RegisterLoggingSubscribers(bus, logger.Discard())
		Expect(bus.Types()).To(Equal([]string{
			events.EventTypeCreditsLowBalance,
			events.EventTypeCreditsRecharged,
			events.EventTypeCreditsUsed,
			events.EventTypeTaskAssigned,
		}))
	})

	It("logs low balance events at warn level", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
		events.RegisterLoggingSubscribers(bus, lg)

		Expect(bus.PublishSync(context.Background(), events.NewCreditsLowBalanceEvent("company-1", 5, 100))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("level=WARN"))
		Expect(buf.String()).To(ContainSubstring("credits.low_balance"))
	})

	It("ignores events nobody listens to", func() {
		Expect(bus.Publish(context.Background(), events.NewCreditsUsedEvent("company-1", "txn-1", 1, 1))).To(Succeed())
		Expect(bus.Wait(context.Background())).To(Succeed())
	})
})
