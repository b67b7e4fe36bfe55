// Package pipeline orchestrates the per-event computation: phase
// resolution, sequence retrieval, translation, consequence
// classification, and protein integration. Events are processed by
// independent workers over immutable inputs; the reference catalogues
// are indexed once and shared read-only.
package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/classify"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/event"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/integrate"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/interval"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/phase"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/translate"
)

// ErrNoPhaseMatch marks events whose E1D exon overlaps no coding exon of
// the same gene. A common, recoverable outcome, counted per run.
var ErrNoPhaseMatch = errors.New("no phase match")

// SequenceSource returns strand-corrected nucleotide sequence for a
// genomic interval. Implemented by catalog.Genome.
type SequenceSource interface {
	Fetch(iv interval.Interval) (string, error)
}

// Record is the per-event output of the pipeline, stably keyed by event
// id so downstream joins are independent of processing order.
type Record struct {
	EventID  string
	ModuleID string
	GeneID   string
	GeneName string

	// Geometry is the phase-adjusted three-exon model.
	Geometry *event.Geometry
	Match    *phase.Match

	Distal   *translate.Peptide
	Proximal *translate.Peptide

	Group classify.Group

	Integrations []*integrate.Integration
	Outcome      integrate.Outcome
}

// Stats tallies the expected non-fatal outcomes of a run.
type Stats struct {
	Events            int
	DroppedIncomplete int
	NoPhaseMatch      int
	Failed            int
	Shortened         int
	Elongated         int
	Disrupted         int
	NoIsoform         int
	Rejected          int
	Accepted          int
}

// LogSummary reports the tallies through the logger.
func (s *Stats) LogSummary(logger *zap.Logger) {
	logger.Info("pipeline summary",
		zap.Int("events", s.Events),
		zap.Int("dropped_incomplete", s.DroppedIncomplete),
		zap.Int("no_phase_match", s.NoPhaseMatch),
		zap.Int("failed", s.Failed),
		zap.Int("shortened", s.Shortened),
		zap.Int("elongated", s.Elongated),
		zap.Int("disrupted", s.Disrupted),
		zap.Int("no_isoform", s.NoIsoform),
		zap.Int("rejected", s.Rejected),
		zap.Int("accepted", s.Accepted),
	)
}

// Pipeline runs the per-event computation.
type Pipeline struct {
	resolver   *phase.Resolver
	genome     SequenceSource
	integrator *integrate.Integrator
	workers    int
	logger     *zap.Logger
}

// New creates a pipeline over the shared read-only catalogues.
func New(resolver *phase.Resolver, genome SequenceSource, integrator *integrate.Integrator) *Pipeline {
	return &Pipeline{
		resolver:   resolver,
		genome:     genome,
		integrator: integrator,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and summary messages.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
}

// SetWorkers overrides the worker count. Zero means one per CPU.
func (p *Pipeline) SetWorkers(n int) {
	p.workers = n
}

// Run processes all event geometries and returns the per-event records
// in input order. Per-event failures are logged and tallied; they never
// abort the batch.
func (p *Pipeline) Run(geometries []*event.Geometry) ([]*Record, *Stats) {
	stats := &Stats{Events: len(geometries)}

	items := make(chan workItem, len(geometries))
	for i, g := range geometries {
		items <- workItem{seq: i, geometry: g}
	}
	close(items)

	results := p.parallelProcess(items, p.workers)

	var records []*Record
	_ = orderedCollect(results, func(r workResult) error {
		if r.err != nil {
			if errors.Is(r.err, ErrNoPhaseMatch) {
				stats.NoPhaseMatch++
				return nil
			}
			stats.Failed++
			p.logger.Warn("failed to process event",
				zap.String("event", r.eventID),
				zap.Error(r.err))
			return nil
		}
		records = append(records, r.record)
		switch r.record.Group {
		case classify.GroupShortened:
			stats.Shortened++
		case classify.GroupElongated:
			stats.Elongated++
		case classify.GroupDisrupted:
			stats.Disrupted++
		}
		switch r.record.Outcome {
		case integrate.OutcomeAccepted:
			stats.Accepted++
		case integrate.OutcomeRejected:
			stats.Rejected++
		case integrate.OutcomeNoIsoform:
			stats.NoIsoform++
		}
		return nil
	})

	return records, stats
}

// processEvent runs the full per-event computation: phase resolution,
// translation of both variants, consequence classification, and protein
// integration.
func (p *Pipeline) processEvent(g *event.Geometry) (*Record, error) {
	match, ok := p.resolver.Resolve(g.GeneID, g.E1D.Interval)
	if !ok {
		return nil, fmt.Errorf("event %s: %w", g.EventID, ErrNoPhaseMatch)
	}

	adjusted, _ := phase.Apply(g, match)

	distalSeq, err := p.variantSequence(adjusted.E1D.Interval, adjusted.E2.Interval)
	if err != nil {
		return nil, fmt.Errorf("event %s: distal sequence: %w", g.EventID, err)
	}
	proximalSeq, err := p.variantSequence(adjusted.E1P.Interval, adjusted.E2.Interval)
	if err != nil {
		return nil, fmt.Errorf("event %s: proximal sequence: %w", g.EventID, err)
	}

	distal := translate.Translate(g.EventID, translate.VariantDistal, distalSeq, g.EventSize)
	proximal := translate.Translate(g.EventID, translate.VariantProximal, proximalSeq, g.EventSize)

	rec := &Record{
		EventID:  g.EventID,
		ModuleID: g.ModuleID,
		GeneID:   g.GeneID,
		GeneName: g.GeneName,
		Geometry: adjusted,
		Match:    match,
		Distal:   distal,
		Proximal: proximal,
		Group:    classify.FromPeptides(distal, proximal, adjusted.E1D.DPSI),
	}

	rec.Integrations, rec.Outcome = p.integrator.Integrate(g.GeneID, distal, proximal)
	return rec, nil
}

// variantSequence concatenates the upstream exon variant with the
// downstream exon in transcript order, each strand-corrected.
func (p *Pipeline) variantSequence(upstream, downstream interval.Interval) (string, error) {
	up, err := p.genome.Fetch(upstream)
	if err != nil {
		return "", err
	}
	down, err := p.genome.Fetch(downstream)
	if err != nil {
		return "", err
	}
	return up + down, nil
}
