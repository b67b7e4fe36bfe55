// Package output provides the result sinks of the pipeline:
// tab-delimited exports of classification and integration results and
// FASTA exports of edited protein sequences.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/event"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/pipeline"
)

// EventWriter writes per-event classification records in tab-delimited
// format, one line per event, stably keyed by event id.
type EventWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewEventWriter creates a tab-delimited event writer.
func NewEventWriter(w io.Writer) *EventWriter {
	return &EventWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"event_id",
			"module_id",
			"gene_id",
			"gene_name",
			"strand",
			"event_size",
			"group",
			"frame_shift",
			"stop_codon",
			"e1d_coord",
			"e1p_coord",
			"e2_coord",
			"phase_removed_nt",
			"phase_overlap_nt",
			"distal_peptide",
			"proximal_peptide",
		},
	}
}

// WriteHeader writes the header line.
func (ew *EventWriter) WriteHeader() error {
	_, err := ew.w.WriteString(strings.Join(ew.columns, "\t") + "\n")
	return err
}

// Write writes a single event record.
func (ew *EventWriter) Write(rec *pipeline.Record) error {
	g := rec.Geometry
	fields := []string{
		rec.EventID,
		rec.ModuleID,
		rec.GeneID,
		rec.GeneName,
		g.Strand.String(),
		fmt.Sprintf("%d", g.EventSize),
		string(rec.Group),
		formatBool(rec.Distal.FrameShift),
		formatBool(rec.Distal.StopCodon || rec.Proximal.StopCodon),
		formatCoord(g.E1D),
		formatCoord(g.E1P),
		formatCoord(g.E2),
		fmt.Sprintf("%d", rec.Match.Removed),
		fmt.Sprintf("%d", rec.Match.Overlap),
		rec.Distal.Seq,
		rec.Proximal.Seq,
	}
	_, err := ew.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes buffered output.
func (ew *EventWriter) Flush() error {
	return ew.w.Flush()
}

// IntegrationWriter writes protein integration records.
type IntegrationWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewIntegrationWriter creates a tab-delimited integration writer.
func NewIntegrationWriter(w io.Writer) *IntegrationWriter {
	return &IntegrationWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"event_id",
			"variant",
			"isoform_id",
			"new_id",
			"subject_start",
			"subject_end",
			"matches",
			"mismatches",
			"insertions",
			"deletions",
			"edited_length",
		},
	}
}

// WriteHeader writes the header line.
func (iw *IntegrationWriter) WriteHeader() error {
	_, err := iw.w.WriteString(strings.Join(iw.columns, "\t") + "\n")
	return err
}

// Write writes the integration records of one event.
func (iw *IntegrationWriter) Write(rec *pipeline.Record) error {
	for _, in := range rec.Integrations {
		a := in.Alignment
		fields := []string{
			in.EventID,
			string(in.Variant),
			in.IsoformID,
			in.NewID,
			fmt.Sprintf("%d", a.SubjectStart),
			fmt.Sprintf("%d", a.SubjectEnd),
			fmt.Sprintf("%d", a.Matches),
			fmt.Sprintf("%d", a.Mismatches),
			fmt.Sprintf("%d", a.Insertions),
			fmt.Sprintf("%d", a.Deletions),
			fmt.Sprintf("%d", len(in.Edited)),
		}
		if _, err := iw.w.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (iw *IntegrationWriter) Flush() error {
	return iw.w.Flush()
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatCoord(e event.Exon) string {
	return fmt.Sprintf("%s:%d-%d", e.Chrom, e.Start, e.End)
}
