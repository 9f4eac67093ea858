package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newReindexCommand(g *globals) *cobra.Command {
	var updatedBy int64

	cmd := &cobra.Command{
		Use:   "reindex ID...",
		Short: "Extract stored documents again and replace their searchable text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, len(args))
			for i, a := range args {
				id, err := strconv.ParseInt(a, 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid document id %q", a)
				}
				ids[i] = id
			}
			if updatedBy <= 0 {
				return errors.New("--updated-by must be a positive user id")
			}

			cfg := g.config(cmd)
			logger := g.logger(cfg)
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			var errs []error
			for _, id := range ids {
				res, err := a.service.Reindex(cmd.Context(), id, updatedBy)
				if err != nil {
					errs = append(errs, fmt.Errorf("document %d: %w", id, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "document %d: %d characters of text\n", res.DocumentID, res.TextLength)
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().Int64Var(&updatedBy, "updated-by", 0, "user id recorded as the updater")
	return cmd
}
