package output

import (
	"bufio"
	"io"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/integrate"
)

// fastaLineWidth is the sequence wrap width.
const fastaLineWidth = 60

// FASTAWriter writes edited protein sequences in FASTA format, keyed by
// the identifiers the integrator produced.
type FASTAWriter struct {
	w *bufio.Writer
	// seen suppresses duplicate identifiers: an exact-match variant
	// reuses the reference isoform id and may recur across events.
	seen map[string]bool
}

// NewFASTAWriter creates a FASTA writer.
func NewFASTAWriter(w io.Writer) *FASTAWriter {
	return &FASTAWriter{w: bufio.NewWriter(w), seen: make(map[string]bool)}
}

// Write writes one integration's edited sequence. Identifiers already
// written are skipped.
func (fw *FASTAWriter) Write(in *integrate.Integration) error {
	if fw.seen[in.NewID] {
		return nil
	}
	fw.seen[in.NewID] = true

	if _, err := fw.w.WriteString(">" + in.NewID + "\n"); err != nil {
		return err
	}
	seq := in.Edited
	for len(seq) > fastaLineWidth {
		if _, err := fw.w.WriteString(seq[:fastaLineWidth] + "\n"); err != nil {
			return err
		}
		seq = seq[fastaLineWidth:]
	}
	if len(seq) > 0 {
		if _, err := fw.w.WriteString(seq + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (fw *FASTAWriter) Flush() error {
	return fw.w.Flush()
}
