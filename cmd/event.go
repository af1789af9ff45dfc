package cmd

import (
	"fmt"

	"github.com/frahmantamala/company-management/internal/core/events"
	"github.com/frahmantamala/company-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "events",
	Short: "List the domain events and the subscribers registered for them",
	Run: func(cmd *cobra.Command, args []string) {
		bus := events.NewEventBus(logger.Discard())
		events.RegisterLoggingSubscribers(bus, logger.Discard())

		subscribed := make(map[string]bool)
		for _, t := range bus.Types() {
			subscribed[t] = true
		}

		for _, t := range events.DomainEventTypes {
			status := "no subscribers"
			if subscribed[t] {
				status = "logged"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", t, status)
		}
	},
}
