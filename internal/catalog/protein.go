package catalog

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// ProteinCatalog indexes reference protein isoforms by gene id.
type ProteinCatalog struct {
	byGene map[string][]ProteinIsoform
	count  int
}

// NewProteinCatalog creates a catalog from a slice of isoforms.
func NewProteinCatalog(isoforms []ProteinIsoform) *ProteinCatalog {
	c := &ProteinCatalog{byGene: make(map[string][]ProteinIsoform)}
	for _, iso := range isoforms {
		c.byGene[iso.GeneID] = append(c.byGene[iso.GeneID], iso)
		c.count++
	}
	return c
}

// ByGene returns the isoforms of one gene, nil if the gene has none.
func (c *ProteinCatalog) ByGene(geneID string) []ProteinIsoform {
	return c.byGene[geneID]
}

// Count returns the total number of isoforms in the catalog.
func (c *ProteinCatalog) Count() int {
	return c.count
}

// LoadProteins reads a (optionally gzipped) protein FASTA file.
// Two header layouts are understood: the GENCODE translation FASTA
// ("|"-delimited, isoform id first, gene id in the ENSG field) and a
// plain layout of ">isoform_id gene:gene_id".
func LoadProteins(path string) (*ProteinCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open protein FASTA: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return ParseProteins(reader)
}

// ParseProteins reads protein FASTA content from an arbitrary reader.
func ParseProteins(reader io.Reader) (*ProteinCatalog, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var isoforms []ProteinIsoform
	var current ProteinIsoform
	var seq strings.Builder

	flush := func() {
		if current.ID != "" && seq.Len() > 0 {
			current.Seq = seq.String()
			isoforms = append(isoforms, current)
		}
		seq.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			id, geneID := parseProteinHeader(strings.TrimPrefix(line, ">"))
			current = ProteinIsoform{ID: id, GeneID: geneID}
		} else {
			seq.WriteString(strings.TrimSpace(line))
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan protein FASTA: %w", err)
	}

	return NewProteinCatalog(isoforms), nil
}

func parseProteinHeader(header string) (id, geneID string) {
	if strings.Contains(header, "|") {
		fields := strings.Split(header, "|")
		id = stripVersion(fields[0])
		for _, f := range fields[1:] {
			if strings.HasPrefix(f, "ENSG") {
				geneID = stripVersion(f)
				break
			}
		}
		return id, geneID
	}

	tokens := strings.Fields(header)
	if len(tokens) == 0 {
		return "", ""
	}
	id = stripVersion(tokens[0])
	for _, tok := range tokens[1:] {
		if v, ok := strings.CutPrefix(tok, "gene:"); ok {
			geneID = stripVersion(v)
			break
		}
	}
	return id, geneID
}
