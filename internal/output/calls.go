package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/event"
)

// CallWriter writes regulation calls in tab-delimited format.
type CallWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewCallWriter creates a tab-delimited regulation-call writer.
func NewCallWriter(w io.Writer) *CallWriter {
	return &CallWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"event_class",
			"gene_name",
			"module_id",
			"event_id",
		},
	}
}

// WriteHeader writes the header line.
func (cw *CallWriter) WriteHeader() error {
	_, err := cw.w.WriteString(strings.Join(cw.columns, "\t") + "\n")
	return err
}

// Write writes a single regulation call.
func (cw *CallWriter) Write(c *event.Call) error {
	fields := []string{
		c.EventClass,
		c.GeneName,
		c.ModuleID,
		c.EventID,
	}
	_, err := cw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes buffered output.
func (cw *CallWriter) Flush() error {
	return cw.w.Flush()
}
