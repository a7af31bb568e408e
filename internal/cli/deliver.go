package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vitalvas/salmon/magicsig"
	"github.com/vitalvas/salmon/salmon"
	"github.com/vitalvas/salmon/webfinger"
)

var errDeliveryFailed = errors.New("delivery failed")

type deliverOptions struct {
	to        []string
	endpoints []string
	rel       string
}

func newDeliverCommand(a *app) *cobra.Command {
	opts := &deliverOptions{}

	cmd := &cobra.Command{
		Use:   "deliver [FILE]",
		Short: "Deliver a magic envelope to Salmon endpoints",
		Long: `Post the envelope in FILE (stdin when omitted) to Salmon endpoints.

Endpoints are given directly with --endpoint or discovered for each --to
account through WebFinger.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDeliver(cmd, args, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.to, "to", nil, "Recipient account whose endpoints are discovered")
	cmd.Flags().StringSliceVar(&opts.endpoints, "endpoint", nil, "Salmon endpoint URL")
	cmd.Flags().StringVar(&opts.rel, "rel", webfinger.RelSalmon, "Link relation of discovered endpoints")
	cmd.MarkFlagsOneRequired("to", "endpoint")

	return cmd
}

func (a *app) runDeliver(cmd *cobra.Command, args []string, opts *deliverOptions) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	env, err := magicsig.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse envelope: %w", err)
	}

	endpoints := append([]string(nil), opts.endpoints...)

	if len(opts.to) > 0 {
		discoverer := a.discoverer()

		for _, account := range opts.to {
			found, err := salmon.Endpoints(cmd.Context(), discoverer, account, opts.rel)
			if err != nil {
				return fmt.Errorf("failed to discover endpoints of %s: %w", account, err)
			}

			if len(found) == 0 {
				a.logger.Warn("no endpoints published", zap.String("account", account), zap.String("rel", opts.rel))
			}

			endpoints = append(endpoints, found...)
		}
	}

	if len(endpoints) == 0 {
		return fmt.Errorf("%w: no endpoints", errDeliveryFailed)
	}

	results := salmon.DeliverAll(cmd.Context(), a.deliveryClient(), endpoints, env, a.cfg.Delivery.Concurrency)

	failed := 0

	for _, result := range results {
		if result.Err != nil {
			failed++

			a.logger.Error("delivery failed", zap.String("endpoint", result.Endpoint), zap.Error(result.Err))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: failed\n", result.Endpoint)

			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: delivered\n", result.Endpoint)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d endpoints", errDeliveryFailed, failed, len(results))
	}

	return nil
}
