package roi

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadBED reads transcript records in BED format and returns one ROI
// per coding transcript. For BED12 records the coding region is the
// intersection of the exon blocks with the thickStart-thickEnd
// interval; for shorter records the whole interval is taken as coding.
// An optional 13th column carries the gene identifier; without it the
// transcript name doubles as the gene.
//
// Records without a coding region (thickStart == thickEnd) are skipped.
func ReadBED(rd io.Reader) ([]*ROI, error) {
	var rois []*ROI
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		r, err := parseBEDLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineno, err)
		}
		if r == nil {
			continue
		}
		rois = append(rois, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	log.Infof("Read %d coding regions from BED input", len(rois))
	return rois, nil
}

func parseBEDLine(line string) (*ROI, error) {
	fields := strings.Split(line, "\t")
	if len(fields) == 1 {
		fields = strings.Fields(line)
	}
	if len(fields) < 6 {
		return nil, fmt.Errorf("expected at least 6 BED columns, got %d", len(fields))
	}

	chrom := fields[0]
	start, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("bad start: %v", err)
	}
	end, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("bad end: %v", err)
	}
	name := fields[3]
	strand := byte('+')
	switch fields[5] {
	case "+":
	case "-":
		strand = '-'
	default:
		return nil, fmt.Errorf("%s: bad strand %q", name, fields[5])
	}

	thickStart, thickEnd := start, end
	if len(fields) >= 8 {
		thickStart, err = strconv.Atoi(fields[6])
		if err != nil {
			return nil, fmt.Errorf("%s: bad thickStart: %v", name, err)
		}
		thickEnd, err = strconv.Atoi(fields[7])
		if err != nil {
			return nil, fmt.Errorf("%s: bad thickEnd: %v", name, err)
		}
	}
	if thickStart >= thickEnd {
		log.Debugf("%s: no coding region, skipping", name)
		return nil, nil
	}

	// Exon blocks; a record without block columns is a single exon.
	blocks := [][2]int{{start, end}}
	if len(fields) >= 12 {
		blocks, err = parseBlocks(start, fields[9], fields[10], fields[11])
		if err != nil {
			return nil, fmt.Errorf("%s: %v", name, err)
		}
	}

	gene := name
	if len(fields) >= 13 && fields[12] != "" {
		gene = fields[12]
	}

	var positions []int
	for _, b := range blocks {
		lo, hi := b[0], b[1]
		if lo < thickStart {
			lo = thickStart
		}
		if hi > thickEnd {
			hi = thickEnd
		}
		for p := lo; p < hi; p++ {
			positions = append(positions, p)
		}
	}
	if len(positions) == 0 {
		log.Debugf("%s: exon blocks do not overlap the coding region, skipping", name)
		return nil, nil
	}
	if strand == '-' {
		for i, j := 0, len(positions)-1; i < j; i, j = i+1, j-1 {
			positions[i], positions[j] = positions[j], positions[i]
		}
	}

	return &ROI{
		Name:      name,
		Gene:      gene,
		Chrom:     chrom,
		Strand:    strand,
		Positions: positions,
	}, nil
}

// parseBlocks expands BED12 blockSizes/blockStarts into genomic
// half-open intervals, in ascending order.
func parseBlocks(start int, countS, sizesS, startsS string) ([][2]int, error) {
	count, err := strconv.Atoi(countS)
	if err != nil {
		return nil, fmt.Errorf("bad blockCount: %v", err)
	}
	sizes, err := splitInts(sizesS)
	if err != nil {
		return nil, fmt.Errorf("bad blockSizes: %v", err)
	}
	starts, err := splitInts(startsS)
	if err != nil {
		return nil, fmt.Errorf("bad blockStarts: %v", err)
	}
	if len(sizes) != count || len(starts) != count {
		return nil, fmt.Errorf("blockCount %d does not match %d sizes, %d starts",
			count, len(sizes), len(starts))
	}
	blocks := make([][2]int, count)
	for i := range blocks {
		blocks[i] = [2]int{start + starts[i], start + starts[i] + sizes[i]}
	}
	return blocks, nil
}

func splitInts(s string) ([]int, error) {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
