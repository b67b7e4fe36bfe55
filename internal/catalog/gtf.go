package catalog

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/interval"
)

// GTFLoader loads coding-exon records from a GENCODE-style GTF file.
type GTFLoader struct {
	path string
	// geneType filters genes by their gene_type attribute. Empty loads all.
	geneType string
}

// NewGTFLoader creates a loader restricted to protein-coding genes.
func NewGTFLoader(path string) *GTFLoader {
	return &GTFLoader{path: path, geneType: "protein_coding"}
}

// SetGeneType overrides the gene_type filter. An empty string disables it.
func (l *GTFLoader) SetGeneType(geneType string) {
	l.geneType = geneType
}

// Load parses the GTF file and returns all matching CDS records.
func (l *GTFLoader) Load() ([]CodingExon, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parse(reader)
}

// Parse reads GTF content from an arbitrary reader. Exposed for tests.
func (l *GTFLoader) Parse(reader io.Reader) ([]CodingExon, error) {
	return l.parse(reader)
}

func (l *GTFLoader) parse(reader io.Reader) ([]CodingExon, error) {
	scanner := bufio.NewScanner(reader)
	// GTF attribute columns can be long.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var exons []CodingExon

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 9 {
			continue // skip malformed lines
		}
		if fields[2] != "CDS" {
			continue
		}

		attrs := parseAttributes(fields[8])
		if l.geneType != "" && attrs["gene_type"] != l.geneType {
			continue
		}
		geneID := stripVersion(attrs["gene_id"])
		if geneID == "" {
			continue
		}

		start, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			continue
		}
		strand, err := interval.ParseStrand(fields[6])
		if err != nil {
			continue
		}
		phase, err := strconv.Atoi(fields[7])
		if err != nil || phase < 0 || phase > 2 {
			continue
		}

		exons = append(exons, CodingExon{
			Interval: interval.Interval{
				Chrom:  fields[0],
				Start:  start,
				End:    end,
				Strand: strand,
			},
			GeneID: geneID,
			Phase:  phase,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	return exons, nil
}

// parseAttributes parses the GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}
		key := part[:idx]
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")
		attrs[key] = value
	}

	return attrs
}

// stripVersion removes a trailing ".N" version suffix from an
// Ensembl-style identifier.
func stripVersion(id string) string {
	if idx := strings.LastIndex(id, "."); idx > 0 {
		return id[:idx]
	}
	return id
}
