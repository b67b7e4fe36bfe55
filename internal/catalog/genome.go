package catalog

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/interval"
	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/translate"
)

// Genome holds per-chromosome nucleotide sequence and serves
// strand-corrected interval lookups.
type Genome struct {
	sequences map[string]string // chromosome -> uppercase sequence
}

// NewGenome creates an empty genome.
func NewGenome() *Genome {
	return &Genome{sequences: make(map[string]string)}
}

// AddChromosome stores a chromosome sequence. Used by tests and loaders.
func (g *Genome) AddChromosome(chrom, seq string) {
	g.sequences[chrom] = strings.ToUpper(seq)
}

// LoadGenome reads a (optionally gzipped) genome FASTA file.
// The first whitespace-delimited token of each header is the chromosome name.
func LoadGenome(path string) (*Genome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genome FASTA: %w", err)
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

	g := NewGenome()
	if err := g.parseFASTA(reader); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Genome) parseFASTA(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var current string
	var seq strings.Builder

	flush := func() {
		if current != "" && seq.Len() > 0 {
			g.sequences[current] = strings.ToUpper(seq.String())
		}
		seq.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			current = ""
			if fields := strings.Fields(strings.TrimPrefix(line, ">")); len(fields) > 0 {
				current = fields[0]
			}
		} else {
			seq.WriteString(strings.TrimSpace(line))
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan genome FASTA: %w", err)
	}
	return nil
}

// Fetch returns the nucleotide sequence of an interval, already
// strand-corrected: reverse strand intervals are reverse complemented.
// Coordinates are 1-based inclusive.
func (g *Genome) Fetch(iv interval.Interval) (string, error) {
	chromSeq, ok := g.sequences[iv.Chrom]
	if !ok {
		return "", fmt.Errorf("chromosome %q not in genome", iv.Chrom)
	}
	if iv.Start > iv.End {
		return "", fmt.Errorf("interval %s has start after end", iv)
	}
	if iv.Start < 1 || iv.End > int64(len(chromSeq)) {
		return "", fmt.Errorf("interval %s outside chromosome bounds (len %d)",
			iv, len(chromSeq))
	}

	seq := chromSeq[iv.Start-1 : iv.End]
	if iv.Strand == interval.Reverse {
		seq = translate.ReverseComplement(seq)
	}
	return seq, nil
}
