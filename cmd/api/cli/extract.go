package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docsearch/internal/extract"
	"docsearch/internal/model"
)

func newExtractCommand(g *globals) *cobra.Command {
	var fileType string

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the text the ingestion pipeline would extract from FILE",
		Long: `Print the text the ingestion pipeline would extract from FILE.

The format is taken from the file extension unless --type is given.
Nothing is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.config(cmd)
			logger := g.logger(cfg)

			ft := model.FileType(fileType)
			if fileType == "" {
				var ok bool
				if ft, ok = model.FileTypeFromFilename(args[0]); !ok {
					return fmt.Errorf("cannot infer a supported file type from %q; use --type", args[0])
				}
			}
			if !ft.Valid() {
				return fmt.Errorf("unsupported file type %q", fileType)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			registry, err := extract.New(cmd.Context(), extract.Config{
				MaxBytes: cfg.Ingest.MaxExtractBytes,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			text := registry.Extract(cmd.Context(), data, ft)
			if text == "" {
				return fmt.Errorf("no text extracted from %s", args[0])
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringVar(&fileType, "type", "", "file type (txt, rtf, pdf, docx, epub, html)")
	return cmd
}
