package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ferrovax/go-highlights/internal/audible"
	"github.com/ferrovax/go-highlights/internal/config"
)

// defaultExportName is the bookmarks export file name when no output
// path is given.
const defaultExportName = "bookmarks.json"

// ExportCmd creates the export command.
// The env parameter provides injectable dependencies for testing.
func ExportCmd(env *Env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <title>",
		Short: "Export a book's raw annotations as JSON",
		Long: `Export every annotation for a book to a JSON file.

Rows keep the raw positions as reported by Audible. Annotations
without an end position get a default 30 second span.`,
		Example: `  highlights export "Deep Work"
  highlights export B07DBRBP7G -o deep_work_bookmarks.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, env, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <output-dir>/"+defaultExportName+")")

	return cmd
}

func runExport(cmd *cobra.Command, env *Env, titleOrASIN, output string) error {
	ctx := cmd.Context()

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	client, err := env.AudibleFactory.NewClient(cfg.ArtifactsDir)
	if err != nil {
		return err
	}

	books, err := client.Library(ctx)
	if err != nil {
		return err
	}
	book, err := findBook(books, titleOrASIN)
	if err != nil {
		return err
	}

	records, err := client.RawAnnotations(ctx, book.ASIN)
	if err != nil {
		return err
	}
	rows := audible.BuildBookmarkExport(book, records)

	path := config.ResolveOutputPath(output, cfg.OutputDir, defaultExportName)
	if err := config.EnsureOutputDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := audible.WriteBookmarks(path, rows); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Exported %d annotations: %s\n", len(rows), path)
	return nil
}
