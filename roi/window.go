package roi

import "sort"

// MaximalSpanningWindow collapses transcript isoforms sharing a gene
// into one window per gene, so codons shared between isoforms are not
// counted more than once. The window is the longest 5'-anchored run of
// coding positions on which all isoforms of the gene agree, trimmed to
// a whole number of codons. Genes whose isoforms share no such window
// (different chromosomes, strands or start codons) are skipped with a
// warning.
func MaximalSpanningWindow(rois []*ROI) []*ROI {
	byGene := make(map[string][]*ROI)
	var order []string
	for _, r := range rois {
		if _, ok := byGene[r.Gene]; !ok {
			order = append(order, r.Gene)
		}
		byGene[r.Gene] = append(byGene[r.Gene], r)
	}
	sort.Strings(order)

	out := make([]*ROI, 0, len(order))
	for _, gene := range order {
		group := byGene[gene]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		w := spanningWindow(gene, group)
		if w == nil {
			continue
		}
		out = append(out, w)
	}
	log.Infof("Collapsed %d transcripts into %d maximal spanning windows", len(rois), len(out))
	return out
}

func spanningWindow(gene string, group []*ROI) *ROI {
	first := group[0]
	n := first.Len()
	for _, r := range group[1:] {
		if r.Chrom != first.Chrom || r.Strand != first.Strand {
			log.Warningf("%s: isoforms on different chromosomes or strands, skipping gene", gene)
			return nil
		}
		if r.Len() < n {
			n = r.Len()
		}
	}

	// Longest common 5'-anchored prefix of coding positions.
	shared := n
	for _, r := range group[1:] {
		for i := 0; i < shared; i++ {
			if r.Positions[i] != first.Positions[i] {
				shared = i
				break
			}
		}
	}
	shared -= shared % 3
	if shared < 3 {
		log.Warningf("%s: isoforms share no common start window, skipping gene", gene)
		return nil
	}

	positions := make([]int, shared)
	copy(positions, first.Positions[:shared])
	return &ROI{
		Name:      gene,
		Gene:      gene,
		Chrom:     first.Chrom,
		Strand:    first.Strand,
		Positions: positions,
	}
}
