package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ferrovax/go-highlights/internal/audible"
	"github.com/ferrovax/go-highlights/internal/audio"
	"github.com/ferrovax/go-highlights/internal/config"
	"github.com/ferrovax/go-highlights/internal/format"
	"github.com/ferrovax/go-highlights/internal/highlight"
	"github.com/ferrovax/go-highlights/internal/sheet"
	"github.com/ferrovax/go-highlights/internal/transcribe"
)

// MaxParallelTitles bounds concurrent title pipelines. API calls are
// shared through one rate-limited transcriber, so parallelism only
// overlaps file I/O between titles.
const MaxParallelTitles = 4

// clampParallel constrains parallel title count to valid range [1, MaxParallelTitles].
func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxParallelTitles {
		return MaxParallelTitles
	}
	return n
}

// TranscribeCmd creates the transcribe command.
// The env parameter provides injectable dependencies for testing.
func TranscribeCmd(env *Env) *cobra.Command {
	var (
		output       string
		providerName string
		parallel     int
		interval     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "transcribe <title> [title...]",
		Short: "Transcribe extracted clips and collect the highlights",
		Long: `Transcribe each extracted clip and collect the results.

Every title gets a contents.json next to its clips, and all titles
share one All_Transcriptions.xlsx workbook with a sheet per title.
Clips that fail recognition keep their row with empty text so a rerun
is never required to see the rest.

Transcription uses OpenAI by default, or AssemblyAI with
--provider assemblyai.`,
		Example: `  highlights transcribe "Deep Work"
  highlights transcribe "Deep Work" "Atomic Habits" -o ~/highlights.xlsx
  highlights transcribe B07DBRBP7G --provider assemblyai`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd, env, args, output, providerName, parallel, interval)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Workbook path (default: <output-dir>/"+sheet.WorkbookFileName+")")
	cmd.Flags().StringVar(&providerName, "provider", ProviderOpenAI, "Speech recognition provider: openai, assemblyai")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 2, "Max titles processed concurrently (1-4)")
	cmd.Flags().DurationVar(&interval, "request-interval", transcribe.DefaultRequestInterval, "Minimum spacing between recognition requests")

	return cmd
}

// titleResult is one title's aggregation outcome, kept until every
// title finishes so the workbook is written in a single pass.
type titleResult struct {
	titleKey string
	view     *highlight.LabelView
	failed   int
}

// runTranscribe executes the transcription pipeline for one or more titles.
// Validation order: provider -> config -> API key -> library -> titles
func runTranscribe(cmd *cobra.Command, env *Env, titles []string, output, providerName string, parallel int, interval time.Duration) error {
	ctx := cmd.Context()

	provider, err := ParseProvider(providerName)
	if err != nil {
		return err
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	apiKey := env.Getenv(provider.APIKeyEnvVar())
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=...)", ErrAPIKeyMissing, provider.APIKeyEnvVar())
	}

	parallel = clampParallel(parallel)

	client, err := env.AudibleFactory.NewClient(cfg.ArtifactsDir)
	if err != nil {
		return err
	}

	library, err := client.Library(ctx)
	if err != nil {
		return err
	}

	// Resolve every title before any API spend.
	books := make([]audible.Book, 0, len(titles))
	for _, title := range titles {
		book, err := findBook(library, title)
		if err != nil {
			return err
		}
		books = append(books, book)
	}

	inner, err := env.TranscriberFactory.NewTranscriber(provider, apiKey)
	if err != nil {
		return err
	}
	transcriber := transcribe.NewRateLimited(inner, interval)

	results := make([]titleResult, len(books))
	var stderrMu sync.Mutex
	warnf := func(format string, args ...any) {
		stderrMu.Lock()
		defer stderrMu.Unlock()
		fmt.Fprintf(env.Stderr, format+"\n", args...)
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(parallel))

	for i, book := range books {
		i, book := i, book
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			res, err := transcribeTitle(gctx, env, cfg, book, transcriber, warnf)
			if err != nil {
				return fmt.Errorf("%s: %w", book.Title, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	renderer, err := sheet.NewRenderer()
	if err != nil {
		return err
	}
	defer func() { _ = renderer.Close() }()

	failed := 0
	for _, res := range results {
		if err := renderer.AddTitle(res.titleKey, res.view); err != nil {
			return err
		}
		failed += res.failed
	}

	workbookPath := config.ResolveOutputPath(output, cfg.OutputDir, sheet.WorkbookFileName)
	if err := config.EnsureOutputDir(filepath.Dir(workbookPath)); err != nil {
		return err
	}
	if err := renderer.Save(workbookPath); err != nil {
		return err
	}

	size := ""
	if info, err := os.Stat(workbookPath); err == nil {
		size = " (" + format.Size(info.Size()) + ")"
	}
	if failed > 0 {
		fmt.Fprintf(env.Stderr, "Done with %d failed clips: %s%s\n", failed, workbookPath, size)
	} else {
		fmt.Fprintf(env.Stderr, "Done: %s%s\n", workbookPath, size)
	}
	return nil
}

// transcribeTitle runs one title: scan its clips, transcribe them, and
// write its contents.json.
func transcribeTitle(ctx context.Context, env *Env, cfg config.Config, book audible.Book, transcriber transcribe.Transcriber, warnf highlight.WarnFunc) (titleResult, error) {
	titleDir := audio.AudiobookDir(cfg.ArtifactsDir, book.Title)

	clips, err := scanClips(audio.ClipsDir(titleDir))
	if err != nil {
		return titleResult{}, err
	}

	agg, err := highlight.NewAggregator(transcriber, highlight.WithWarnFunc(warnf))
	if err != nil {
		return titleResult{}, err
	}

	warnf("Transcribing %d clips for %s...", len(clips), book.Title)
	res, err := agg.Aggregate(ctx, clips, highlight.Meta{
		Title:  book.Title,
		Author: book.AuthorList(),
	})
	if err != nil {
		return titleResult{}, err
	}

	outDir := highlight.OutputDir(titleDir)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return titleResult{}, fmt.Errorf("cannot create output directory: %w", err)
	}
	contentsPath := filepath.Join(outDir, highlight.ContentsFileName)
	dropped, err := highlight.WriteContents(contentsPath, res.Records)
	if err != nil {
		return titleResult{}, err
	}
	if dropped > 0 {
		warnf("Dropped %d empty transcriptions from %s", dropped, contentsPath)
	}

	return titleResult{
		titleKey: audio.TitleKey(book.Title),
		view:     res.Sheet,
		failed:   res.Failed,
	}, nil
}

// scanClips lists the FLAC clips under dir in name order. The label is
// the file name without its extension, matching how extraction names
// the artifacts.
func scanClips(dir string) ([]audio.Clip, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run 'highlights extract' first)", ErrNoClips, dir)
		}
		return nil, fmt.Errorf("cannot read clips directory: %w", err)
	}

	clips := make([]audio.Clip, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".flac") {
			continue
		}
		clips = append(clips, audio.Clip{
			Label: strings.TrimSuffix(name, ".flac"),
			Path:  filepath.Join(dir, name),
		})
	}
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w: %s (run 'highlights extract' first)", ErrNoClips, dir)
	}
	return clips, nil
}
