package highlight

import (
	"context"
	"fmt"
	"os"

	"github.com/ferrovax/go-highlights/internal/audio"
	"github.com/ferrovax/go-highlights/internal/transcribe"
)

// WarnFunc receives operational warnings (per-clip recognition failures).
type WarnFunc func(format string, args ...any)

// defaultWarnFunc writes warnings to stderr.
func defaultWarnFunc(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Result holds the aggregation output: the ordered record list and the
// label-keyed view the sheet renderer consumes.
type Result struct {
	Records []Record
	Sheet   *LabelView

	// Failed counts clips whose transcription failed. Their records
	// carry empty text.
	Failed int
}

// Aggregator transcribes clips and assembles highlight records.
type Aggregator struct {
	transcriber transcribe.Transcriber
	warn        WarnFunc
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithWarnFunc sets the warning callback.
func WithWarnFunc(warn WarnFunc) AggregatorOption {
	return func(a *Aggregator) {
		if warn != nil {
			a.warn = warn
		}
	}
}

// NewAggregator creates an Aggregator using the given transcriber.
func NewAggregator(t transcribe.Transcriber, opts ...AggregatorOption) (*Aggregator, error) {
	if t == nil {
		return nil, fmt.Errorf("aggregator requires a transcriber")
	}

	a := &Aggregator{
		transcriber: t,
		warn:        defaultWarnFunc,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Aggregate transcribes each clip in order and builds its record. A
// failed transcription warns with the clip label and yields an
// empty-text record; the run continues with the remaining clips.
// Context cancellation aborts the run.
func (a *Aggregator) Aggregate(ctx context.Context, clips []audio.Clip, meta Meta) (*Result, error) {
	result := &Result{
		Records: make([]Record, 0, len(clips)),
		Sheet:   NewLabelView(),
	}

	for _, clip := range clips {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := a.transcriber.Transcribe(ctx, clip.Path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.warn("Error while recognizing clip %s: %v", clip.Label, err)
			text = ""
			result.Failed++
		}

		result.Records = append(result.Records, Record{
			Title:      meta.Title,
			Author:     meta.Author,
			Note:       noteForLabel(clip.Label),
			SourceType: SourceType,
			Text:       text,
			Label:      clip.Label,
			Position:   clip.Window.RawStart,
		})
		result.Sheet.Set(clip.Label, text)
	}

	return result, nil
}
