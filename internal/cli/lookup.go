package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLookupCommand(a *app) *cobra.Command {
	var rel string

	cmd := &cobra.Command{
		Use:   "lookup ACCOUNT",
		Short: "Discover WebFinger service descriptions",
		Long: `Resolve ACCOUNT through host-meta and LRDD and print the service
descriptions found. With --rel, only the matching links are printed, one
per line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptions, err := a.discoverer().Lookup(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("lookup failed: %w", err)
			}

			out := cmd.OutOrStdout()

			for _, xrd := range descriptions {
				if rel != "" {
					for _, link := range xrd.LinksByRel(rel) {
						target := link.Href
						if target == "" {
							target = link.Template
						}

						fmt.Fprintln(out, target)
					}

					continue
				}

				data, err := xrd.Marshal()
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%s\n", data)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&rel, "rel", "", "Only print links with this relation")

	return cmd
}
