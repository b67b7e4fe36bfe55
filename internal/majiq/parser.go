package majiq

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/interval"
)

// Fixed column names in modulizer tables.
const (
	ColModuleID           = "module_id"
	ColEventID            = "event_id"
	ColGeneID             = "gene_id"
	ColGeneName           = "gene_name"
	ColSeqID              = "seqid"
	ColStrand             = "strand"
	ColLSVID              = "lsv_id"
	ColJunctionName       = "junction_name"
	ColJunctionCoord      = "junction_coord"
	ColReferenceExonCoord = "reference_exon_coord"
	ColSplicedWithCoord   = "spliced_with_coord"
	ColDenovo             = "denovo"
)

// Quantification columns are prefixed with comparison or group names by
// the modulizer, so they are matched by suffix.
const (
	SuffixProbability = "probability_changing"
	SuffixDPSI        = "median_dpsi"
	SuffixPSI         = "median_psi"
)

// ParseError describes a structural problem in a quantification table.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// columnIndices holds the resolved column positions for one table.
type columnIndices struct {
	moduleID      int
	eventID       int
	geneID        int
	geneName      int
	seqID         int
	strand        int
	lsvID         int
	junctionName  int
	junctionCoord int
	refExonCoord  int
	splicedCoord  int
	denovo        int
	probability   int
	dpsi          int
	psiControl    int
	psiTreatment  int
}

// Parser reads junction records from a modulizer TSV table.
// Supports plain and gzipped tables.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    columnIndices
}

// NewParser opens a quantification table for reading.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quantification table: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes, then rewind.
	buf := make([]byte, 2)
	if _, err := file.Read(buf); err != nil {
		file.Close()
		return nil, fmt.Errorf("read table header: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek table: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g. a test buffer).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{reader: bufio.NewReader(r)}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseHeader locates the header line and resolves column indices.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return &ParseError{Line: p.lineNumber, Message: "no header line found"}
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		return p.parseColumnIndices(line)
	}
}

func (p *Parser) parseColumnIndices(headerLine string) error {
	columns := strings.Split(headerLine, "\t")

	p.columns = columnIndices{
		moduleID: -1, eventID: -1, geneID: -1, geneName: -1,
		seqID: -1, strand: -1, lsvID: -1, junctionName: -1,
		junctionCoord: -1, refExonCoord: -1, splicedCoord: -1,
		denovo: -1, probability: -1, dpsi: -1,
		psiControl: -1, psiTreatment: -1,
	}

	for i, col := range columns {
		switch col {
		case ColModuleID:
			p.columns.moduleID = i
		case ColEventID:
			p.columns.eventID = i
		case ColGeneID:
			p.columns.geneID = i
		case ColGeneName:
			p.columns.geneName = i
		case ColSeqID:
			p.columns.seqID = i
		case ColStrand:
			p.columns.strand = i
		case ColLSVID:
			p.columns.lsvID = i
		case ColJunctionName:
			p.columns.junctionName = i
		case ColJunctionCoord:
			p.columns.junctionCoord = i
		case ColReferenceExonCoord:
			p.columns.refExonCoord = i
		case ColSplicedWithCoord:
			p.columns.splicedCoord = i
		case ColDenovo:
			p.columns.denovo = i
		default:
			// Quantification columns carry comparison/group name prefixes.
			switch {
			case strings.HasSuffix(col, SuffixProbability):
				p.columns.probability = i
			case strings.HasSuffix(col, SuffixDPSI):
				p.columns.dpsi = i
			case strings.HasSuffix(col, SuffixPSI):
				// First median_psi column is the control group,
				// second is the treatment group.
				if p.columns.psiControl == -1 {
					p.columns.psiControl = i
				} else if p.columns.psiTreatment == -1 {
					p.columns.psiTreatment = i
				}
			}
		}
	}

	required := []struct {
		name string
		idx  int
	}{
		{ColModuleID, p.columns.moduleID},
		{ColGeneID, p.columns.geneID},
		{ColSeqID, p.columns.seqID},
		{ColStrand, p.columns.strand},
		{ColLSVID, p.columns.lsvID},
		{ColJunctionName, p.columns.junctionName},
		{ColJunctionCoord, p.columns.junctionCoord},
	}
	for _, req := range required {
		if req.idx == -1 {
			return &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("required column %q not found in header", req.name),
			}
		}
	}

	return nil
}

// Next reads the next junction record.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Junction, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read junction line: %w", err)
	}
	p.lineNumber++

	line = strings.TrimRight(line, "\r\n")
	if line == "" || strings.HasPrefix(line, "#") {
		return p.Next()
	}

	return p.parseLine(line)
}

// All reads the remaining records into a slice.
func (p *Parser) All() ([]*Junction, error) {
	var out []*Junction
	for {
		j, err := p.Next()
		if err != nil {
			return nil, err
		}
		if j == nil {
			return out, nil
		}
		out = append(out, j)
	}
}

func (p *Parser) parseLine(line string) (*Junction, error) {
	fields := strings.Split(line, "\t")

	get := func(idx int) string {
		if idx < 0 || idx >= len(fields) {
			return ""
		}
		return fields[idx]
	}

	strand, err := interval.ParseStrand(get(p.columns.strand))
	if err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: err.Error()}
	}

	j := &Junction{
		ModuleID:           get(p.columns.moduleID),
		EventID:            get(p.columns.eventID),
		GeneID:             get(p.columns.geneID),
		GeneName:           get(p.columns.geneName),
		Chrom:              get(p.columns.seqID),
		Strand:             strand,
		LSVID:              get(p.columns.lsvID),
		Name:               get(p.columns.junctionName),
		Coord:              get(p.columns.junctionCoord),
		ReferenceExonCoord: get(p.columns.refExonCoord),
		SplicedWithCoord:   get(p.columns.splicedCoord),
		Annotated:          !parseBool(get(p.columns.denovo)),
		Probability:        parseFloat(get(p.columns.probability)),
		DPSI:               parseFloat(get(p.columns.dpsi)),
		PSIControl:         parseFloat(get(p.columns.psiControl)),
		PSITreatment:       parseFloat(get(p.columns.psiTreatment)),
	}

	// Tables without an explicit event id key events by gene and module.
	if j.EventID == "" {
		j.EventID = j.GeneID + "_" + j.ModuleID
	}

	return j, nil
}

// parseFloat parses a quantification value; empty and NA-like values
// become NaN so downstream filters can drop them.
func parseFloat(s string) float64 {
	if s == "" || s == "NA" || s == "NaN" || s == "nan" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "t", "1", "yes":
		return true
	}
	return false
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and releases resources.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}
