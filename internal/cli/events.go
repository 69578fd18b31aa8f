package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/heritagepass/internal/adapters/nats"
	"github.com/samirrijal/heritagepass/internal/core/domain"
)

func newEventsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect validation outcome events",
	}
	cmd.AddCommand(newEventsTailCmd(e))
	return cmd
}

func newEventsTailCmd(e *env) *cobra.Command {
	var entity string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print validation outcomes as they are published",
		Long: `Follow the validation outcome stream on NATS JetStream and print each
event as a JSON line until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if entity != "" {
				if _, ok := domain.ParseEntity(entity); !ok {
					return fmt.Errorf("unknown entity %q", entity)
				}
			}
			cfg, err := e.config()
			if err != nil {
				return err
			}
			sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			err = sub.SubscribeValidationOutcomes(ctx, entity, func(_ context.Context, ev *domain.ValidationEvent) error {
				return printJSONLine(out, ev)
			})
			if err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "", "only show events for this entity kind")
	return cmd
}
