package catalog

import (
	"sort"

	"github.com/Mchicken1988/Prieto-Garcia-et-al-2023/internal/interval"
)

// ExonIndex provides overlap queries over a gene's coding exons using a
// sorted-slice interval tree. Exons are loaded once and never modified
// after build.
type ExonIndex struct {
	exons  []CodingExon // sorted by Start
	maxEnd []int64      // maxEnd[i] = max(End) for exons[i:]
}

// BuildExonIndex creates an index from a slice of coding exons.
func BuildExonIndex(exons []CodingExon) *ExonIndex {
	if len(exons) == 0 {
		return &ExonIndex{}
	}

	sorted := make([]CodingExon, len(exons))
	copy(sorted, exons)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	maxEnd := make([]int64, len(sorted))
	maxEnd[len(sorted)-1] = sorted[len(sorted)-1].End
	for i := len(sorted) - 2; i >= 0; i-- {
		maxEnd[i] = sorted[i].End
		if maxEnd[i+1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i+1]
		}
	}

	return &ExonIndex{exons: sorted, maxEnd: maxEnd}
}

// FindOverlapping returns all coding exons overlapping iv by any amount.
func (x *ExonIndex) FindOverlapping(iv interval.Interval) []CodingExon {
	if len(x.exons) == 0 {
		return nil
	}

	var result []CodingExon

	// Candidates must have start <= iv.End; scan backwards from there,
	// pruning once no remaining exon can reach iv.Start.
	hi := sort.Search(len(x.exons), func(i int) bool {
		return x.exons[i].Start > iv.End
	})

	for i := hi - 1; i >= 0; i-- {
		if x.maxEnd[i] < iv.Start {
			break
		}
		e := x.exons[i]
		if e.End >= iv.Start && e.Chrom == iv.Chrom {
			result = append(result, e)
		}
	}

	return result
}

// GeneExonIndex groups coding exons by gene id, each gene carrying its
// own overlap index. Built once from the annotation and shared read-only
// across workers.
type GeneExonIndex struct {
	byGene map[string]*ExonIndex
}

// BuildGeneExonIndex indexes coding exons per gene.
func BuildGeneExonIndex(exons []CodingExon) *GeneExonIndex {
	grouped := make(map[string][]CodingExon)
	for _, e := range exons {
		grouped[e.GeneID] = append(grouped[e.GeneID], e)
	}

	byGene := make(map[string]*ExonIndex, len(grouped))
	for gene, list := range grouped {
		byGene[gene] = BuildExonIndex(list)
	}
	return &GeneExonIndex{byGene: byGene}
}

// FindOverlapping returns the coding exons of one gene overlapping iv.
func (x *GeneExonIndex) FindOverlapping(geneID string, iv interval.Interval) []CodingExon {
	idx, ok := x.byGene[geneID]
	if !ok {
		return nil
	}
	return idx.FindOverlapping(iv)
}
