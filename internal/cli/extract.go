package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferrovax/go-highlights/internal/annotation"
	"github.com/ferrovax/go-highlights/internal/audio"
)

// ExtractCmd creates the extract command.
// The env parameter provides injectable dependencies for testing.
func ExtractCmd(env *Env) *cobra.Command {
	var (
		preRoll  int64
		postRoll int64
	)

	cmd := &cobra.Command{
		Use:   "extract <title>",
		Short: "Extract annotated clips from a decoded audiobook",
		Long: `Extract FLAC clips for a book's clips and bookmarks.

Annotations are fetched from Audible, padded with the configured
pre-roll and post-roll, clamped to the audio bounds, and sliced out
of the decoded audio. Clips matching a note position are labeled
with the note text; the rest are numbered clip1, clip2, ...`,
		Example: `  highlights extract "Deep Work"
  highlights extract B07DBRBP7G --pre-roll-ms 5000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, env, args[0], preRoll, postRoll)
		},
	}

	cmd.Flags().Int64Var(&preRoll, "pre-roll-ms", -1, "Milliseconds of lead-in before each annotation (default: configured value)")
	cmd.Flags().Int64Var(&postRoll, "post-roll-ms", -1, "Milliseconds of tail after each annotation (default: configured value)")

	return cmd
}

// runExtract executes the clip extraction pipeline.
// Validation order: config -> library -> annotations -> ffmpeg -> audio
func runExtract(cmd *cobra.Command, env *Env, titleOrASIN string, preRoll, postRoll int64) error {
	ctx := cmd.Context()

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}
	if preRoll < 0 {
		preRoll = cfg.PreRollMs
	}
	if postRoll < 0 {
		postRoll = cfg.PostRollMs
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

	records, err := client.Annotations(ctx, book.ASIN)
	if err != nil {
		return err
	}

	notes, clipRecords := annotation.Classify(records)
	if len(clipRecords) == 0 {
		fmt.Fprintf(env.Stderr, "No clips or bookmarks for %s\n", book.Title)
		return nil
	}
	noteIndex := annotation.BuildNoteIndex(notes)

	windows := make([]annotation.Window, 0, len(clipRecords))
	for _, rec := range clipRecords {
		windows = append(windows, annotation.ComputeWindow(rec, preRoll, postRoll))
	}

	ffmpegPath, err := env.FFmpegResolver.Resolve(ctx)
	if err != nil {
		return err
	}
	env.FFmpegResolver.CheckVersion(ctx, ffmpegPath)

	provider, err := env.AudioFactory.NewProvider(ffmpegPath, cfg.ArtifactsDir)
	if err != nil {
		return err
	}

	buf, err := provider.Open(ctx, book.Title)
	if err != nil {
		return err
	}

	warn := func(msg string) {
		fmt.Fprintln(env.Stderr, msg)
	}
	extractor, err := env.AudioFactory.NewExtractor(ffmpegPath, warn)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Extracting %d clips from %s...\n", len(windows), buf)
	clips, err := extractor.Extract(ctx, buf, windows, noteIndex)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Done: %d clips in %s\n",
		len(clips), audio.ClipsDir(provider.AudiobookDir(book.Title)))
	return nil
}
