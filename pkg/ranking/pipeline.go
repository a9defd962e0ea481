package ranking

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("ranking")

// Source reads the raw input sheet.
type Source interface {
	Read(ctx context.Context, sheet string) (Input, error)
}

// Publisher replaces the whole content of a named output sheet, creating
// the sheet first if it does not exist.
type Publisher interface {
	Publish(ctx context.Context, table Table) error
}

// BatchPublisher is implemented by sinks that can replace several sheets in
// one go. The pipeline prefers it over repeated Publish calls.
type BatchPublisher interface {
	Publisher
	PublishAll(ctx context.Context, tables []Table) error
}

// Pipeline computes individual and group rankings.
type Pipeline struct {
	Columns Columns
	Weights Weights
	Sheets  Sheets
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		Columns: DefaultColumns(),
		Weights: DefaultWeights(),
		Sheets:  DefaultSheets(),
	}
}

// Result summarises a completed run.
type Result struct {
	Students   int
	Groups     int
	Individual Table
	Group      Table
	Duration   time.Duration
}

// Compute runs the pure part of the pipeline: parse, score, rank, aggregate.
// Nothing is read or written.
func (p *Pipeline) Compute(in Input) (individual, group Table, err error) {
	if err := CheckHeader(in.Header, p.Columns); err != nil {
		return Table{}, Table{}, err
	}

	students, err := ParseRows(in.Rows, p.Columns)
	if err != nil {
		return Table{}, Table{}, err
	}

	p.Weights.Score(students)
	ranked := RankStudents(students)
	groups := RankGroups(AggregateGroups(students))

	return IndividualTable(p.Sheets.Individual, p.Columns, ranked),
		GroupTable(p.Sheets.Group, p.Columns, groups),
		nil
}

// Run reads the source sheet, computes both rankings and publishes them.
// Both tables are built in full before anything is written.
func (p *Pipeline) Run(ctx context.Context, src Source, dst Publisher) (result Result, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "ranking.Run", trace.WithAttributes(
		attribute.String("ranking.source", p.Sheets.Source),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	in, err := p.read(ctx, src)
	if err != nil {
		return Result{}, err
	}
	log.WithFields(log.Fields{"sheet": p.Sheets.Source, "rows": len(in.Rows)}).Debug("read source sheet")

	individual, group, err := p.Compute(in)
	if err != nil {
		return Result{}, err
	}
	span.SetAttributes(
		attribute.Int("ranking.students", len(individual.Rows)),
		attribute.Int("ranking.groups", len(group.Rows)),
	)

	if err := p.publish(ctx, dst, individual, group); err != nil {
		return Result{}, err
	}

	return Result{
		Students:   len(individual.Rows),
		Groups:     len(group.Rows),
		Individual: individual,
		Group:      group,
		Duration:   time.Since(start),
	}, nil
}

func (p *Pipeline) read(ctx context.Context, src Source) (Input, error) {
	ctx, span := tracer.Start(ctx, "ranking.Read")
	defer span.End()

	in, err := src.Read(ctx, p.Sheets.Source)
	if err != nil {
		return Input{}, Classify(SourceUnavailable, err, "reading sheet %q", p.Sheets.Source)
	}
	if err := ctx.Err(); err != nil {
		return Input{}, Classify(SourceUnavailable, err, "reading sheet %q", p.Sheets.Source)
	}
	return in, nil
}

func (p *Pipeline) publish(ctx context.Context, dst Publisher, tables ...Table) error {
	ctx, span := tracer.Start(ctx, "ranking.Publish")
	defer span.End()

	// last chance to bail out before touching the output sheets
	if err := ctx.Err(); err != nil {
		return Classify(SinkUnavailable, err, "run aborted before publishing")
	}

	if b, ok := dst.(BatchPublisher); ok {
		if err := b.PublishAll(ctx, tables); err != nil {
			return Classify(SinkUnavailable, err, "publishing %d sheets", len(tables))
		}
		return nil
	}

	for _, t := range tables {
		if err := dst.Publish(ctx, t); err != nil {
			return Classify(SinkUnavailable, err, "publishing sheet %q", t.Name)
		}
		log.WithFields(log.Fields{"sheet": t.Name, "rows": len(t.Rows)}).Debug("published sheet")
	}
	return nil
}
