package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrovax/go-highlights/internal/audible"
	"github.com/ferrovax/go-highlights/internal/audio"
)

// LibraryCmd creates the library command.
// The env parameter provides injectable dependencies for testing.
func LibraryCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "List audiobooks in your Audible library",
		Long: `List every audiobook in your Audible library with its ASIN.

Pass a title (or its ASIN) to the extract, transcribe, and export
commands to select a book.`,
		Example: `  highlights library`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibrary(cmd, env)
		},
	}

	return cmd
}

func runLibrary(cmd *cobra.Command, env *Env) error {
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

	out := cmd.OutOrStdout()
	for _, book := range books {
		fmt.Fprintf(out, "%s  %s - %s\n", book.ASIN, book.Title, book.AuthorList())
	}
	fmt.Fprintf(env.Stderr, "%d books\n", len(books))

	return nil
}

// findBook resolves a user-supplied title or ASIN against the library.
// Titles match case-insensitively on their directory key, so
// "Deep Work" and "deep_work" select the same book.
func findBook(books []audible.Book, titleOrASIN string) (audible.Book, error) {
	key := audio.TitleKey(titleOrASIN)
	for _, book := range books {
		if book.ASIN == titleOrASIN || audio.TitleKey(book.Title) == key {
			return book, nil
		}
	}
	return audible.Book{}, fmt.Errorf("%w: %q (run 'highlights library' to list titles)", ErrTitleNotFound, titleOrASIN)
}
