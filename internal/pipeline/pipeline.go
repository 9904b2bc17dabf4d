// Package pipeline orchestrates one publishing pass over the topic sheet:
// pick work, generate copy and an image, write them back, publish.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/omjanipms/LinkedIn-Agent/internal/logger"
	"github.com/omjanipms/LinkedIn-Agent/internal/sheets"
)

// ContentSource generates marketing copy for a topic.
type ContentSource interface {
	Generate(ctx context.Context, topic string) (string, error)
}

// ImageSource locates an illustrative image URL for a topic.
type ImageSource interface {
	FindImage(ctx context.Context, topic string) (string, error)
}

// Publisher creates a post on the target platform and returns its
// platform reference.
type Publisher interface {
	Publish(ctx context.Context, topic, content, imageURL string) (string, error)
}

// SheetStore is the positional row store backing the pipeline.
type SheetStore interface {
	ReadRows(ctx context.Context) ([]sheets.Row, error)
	UpdateRow(ctx context.Context, index int, content, imageURL string) error
}

// Mode selects between the two operating modes.
type Mode string

const (
	// ModeGenerate fills in and publishes the newest empty topic row.
	ModeGenerate Mode = "generate"
	// ModePrefilled publishes rows that already carry content and image.
	ModePrefilled Mode = "prefilled"
)

// Pipeline stages, used in Outcome.Stage.
const (
	StageSheetRead         = "sheet-read"
	StageContentGeneration = "content-generation"
	StageImageLookup       = "image-lookup"
	StageSheetUpdate       = "sheet-update"
	StagePublish           = "publish"
)

type State int

const (
	StateNoWork State = iota
	StatePublished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNoWork:
		return "no-work"
	case StatePublished:
		return "published"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome reports what one pipeline run did. Failures are reported, not
// returned as errors: the caller decides whether to retry later.
type Outcome struct {
	State     State
	Topic     string
	Stage     string
	Err       error
	Published int
}

func noWork() Outcome {
	return Outcome{State: StateNoWork}
}

func published(topic string, count int) Outcome {
	return Outcome{State: StatePublished, Topic: topic, Published: count}
}

func failed(topic, stage string, err error) Outcome {
	return Outcome{State: StateFailed, Topic: topic, Stage: stage, Err: err}
}

type Pipeline struct {
	sheet     SheetStore
	content   ContentSource
	images    ImageSource
	publisher Publisher
	mode      Mode
	postDelay time.Duration
}

func New(sheet SheetStore, content ContentSource, images ImageSource, publisher Publisher, mode Mode, postDelay time.Duration) *Pipeline {
	return &Pipeline{
		sheet:     sheet,
		content:   content,
		images:    images,
		publisher: publisher,
		mode:      mode,
		postDelay: postDelay,
	}
}

// Run executes one pass in the configured mode.
func (p *Pipeline) Run(ctx context.Context) Outcome {
	rows, err := p.sheet.ReadRows(ctx)
	if err != nil {
		return failed("", StageSheetRead, err)
	}

	if p.mode == ModePrefilled {
		return p.runPrefilled(ctx, rows)
	}
	return p.runGenerate(ctx, rows)
}

// runGenerate processes exactly one row: the most recently appended
// unprocessed topic. Rerun the pipeline to work through a backlog.
func (p *Pipeline) runGenerate(ctx context.Context, rows []sheets.Row) Outcome {
	var row *sheets.Row
	for i := len(rows) - 1; i >= 0; i-- {
		if !rows[i].Processed() {
			row = &rows[i]
			break
		}
	}

	if row == nil {
		logger.Info("no unprocessed topics found")
		return noWork()
	}

	topic := strings.TrimSpace(row.Topic)
	if topic == "" {
		logger.Warn("unprocessed row has an empty topic, nothing to do", "row", row.Index)
		return noWork()
	}

	logger.Info("processing topic", "topic", topic, "row", row.Index)

	text, err := p.content.Generate(ctx, topic)
	if err != nil {
		return failed(topic, StageContentGeneration, err)
	}

	imageURL, err := p.images.FindImage(ctx, topic)
	if err != nil {
		return failed(topic, StageImageLookup, err)
	}

	if err := p.sheet.UpdateRow(ctx, row.Index, text, imageURL); err != nil {
		return failed(topic, StageSheetUpdate, err)
	}

	// The row update is deliberately not rolled back if publishing fails:
	// a rerun sees the row as processed and skips it (at-most-once).
	if _, err := p.publisher.Publish(ctx, topic, text, imageURL); err != nil {
		return failed(topic, StagePublish, err)
	}

	return published(topic, 1)
}

// runPrefilled publishes every fully-filled row in order, pausing between
// posts. A failing row is logged and skipped, it does not stop the sweep.
func (p *Pipeline) runPrefilled(ctx context.Context, rows []sheets.Row) Outcome {
	var (
		posted      int
		lastTopic   string
		lastFailure *Outcome
	)

	for _, row := range rows {
		if !row.Complete() {
			logger.Debug("skipping incomplete row", "row", row.Index)
			continue
		}

		topic := strings.TrimSpace(row.Topic)

		if posted > 0 && p.postDelay > 0 {
			if err := sleepCtx(ctx, p.postDelay); err != nil {
				return failed(topic, StagePublish, err)
			}
		}

		if _, err := p.publisher.Publish(ctx, topic, row.Content, row.ImageURL); err != nil {
			logger.Error("failed to publish row", "row", row.Index, "topic", topic, "error", err)
			f := failed(topic, StagePublish, err)
			lastFailure = &f
			continue
		}

		posted++
		lastTopic = topic
	}

	switch {
	case posted > 0:
		return published(lastTopic, posted)
	case lastFailure != nil:
		return *lastFailure
	default:
		logger.Info("no publishable rows found")
		return noWork()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
