package garray

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/ribokit/riboprof/roi"
)

// MappingRule selects which end of a read anchors the P-site offset.
type MappingRule int

const (
	// FivePrime maps each read to a single position offset nucleotides
	// from its 5' end, towards the 3' end.
	FivePrime MappingRule = iota
	// ThreePrime maps from the 3' end towards the 5' end.
	ThreePrime
)

func (m MappingRule) String() string {
	switch m {
	case FivePrime:
		return "fiveprime"
	case ThreePrime:
		return "threeprime"
	}
	return fmt.Sprintf("MappingRule(%d)", int(m))
}

// BAMArray maps aligned reads to single P-site positions, bucketed by
// aligned read length so a size filter can be switched at query time.
type BAMArray struct {
	rule   MappingRule
	offset int

	byLength map[int]*SparseArray

	minLen, maxLen int

	nReads int
	// reads shorter than the mapping offset
	nShort int
}

// NewBAMArray creates an empty BAMArray counting reads under the given
// mapping rule and P-site offset. The size filter starts fully open.
func NewBAMArray(rule MappingRule, offset int) *BAMArray {
	return &BAMArray{
		rule:     rule,
		offset:   offset,
		byLength: make(map[int]*SparseArray),
		minLen:   1,
		maxLen:   math.MaxInt32,
	}
}

// AddFile reads all alignments from a BAM file into the array.
func (a *BAMArray) AddFile(fn string) error {
	f, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	log.Infof("Reading alignments from %s", fn)
	return a.AddReader(f)
}

// AddReader reads BAM-formatted alignments from rd into the array.
func (a *BAMArray) AddReader(rd io.Reader) error {
	br, err := bam.NewReader(rd, 0)
	if err != nil {
		return err
	}
	defer br.Close()
	n := a.nReads
	for {
		rec, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		a.AddRecord(rec)
	}
	log.Infof("Counted %d aligned reads", a.nReads-n)
	if a.nShort > 0 {
		log.Warningf("%d reads shorter than the %dnt mapping offset were ignored", a.nShort, a.offset)
	}
	return nil
}

// AddRecord maps one alignment to its P-site and counts it. Unmapped
// records and records shorter than the mapping offset are ignored.
func (a *BAMArray) AddRecord(rec *sam.Record) {
	if rec.Flags&sam.Unmapped != 0 || rec.Ref == nil {
		return
	}
	positions := alignedPositions(rec)
	length := len(positions)
	if length == 0 {
		return
	}
	if a.offset >= length {
		a.nShort++
		return
	}

	strand := byte('+')
	if rec.Flags&sam.Reverse != 0 {
		strand = '-'
	}

	var psite int
	switch {
	case a.rule == FivePrime && strand == '+', a.rule == ThreePrime && strand == '-':
		psite = positions[a.offset]
	default:
		psite = positions[length-1-a.offset]
	}

	arr := a.byLength[length]
	if arr == nil {
		arr = NewSparseArray()
		a.byLength[length] = arr
	}
	arr.Add(rec.Ref.Name(), strand, psite, 1)
	a.nReads++
}

// SetSizeFilter restricts queries to reads whose aligned length is in
// [min, max]. max <= 0 leaves the filter open at the top.
func (a *BAMArray) SetSizeFilter(min, max int) {
	if min < 1 {
		min = 1
	}
	if max <= 0 {
		max = math.MaxInt32
	}
	a.minLen, a.maxLen = min, max
}

// Lengths returns the aligned read lengths present in the array, in
// ascending order, ignoring the size filter.
func (a *BAMArray) Lengths() []int {
	lengths := make([]int, 0, len(a.byLength))
	for l := range a.byLength {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	return lengths
}

// Sum implements Array; it honors the size filter.
func (a *BAMArray) Sum() float64 {
	var sum float64
	for l, arr := range a.byLength {
		if l >= a.minLen && l <= a.maxLen {
			sum += arr.Sum()
		}
	}
	return sum
}

// CountVector implements Array; it honors the size filter.
func (a *BAMArray) CountVector(r *roi.ROI) []float64 {
	v := make([]float64, r.Len())
	for l, arr := range a.byLength {
		if l >= a.minLen && l <= a.maxLen {
			arr.addInto(v, r)
		}
	}
	return v
}

// alignedPositions returns the reference positions covered by the
// aligned part of a record, in ascending genomic order. Only CIGAR
// operations consuming both query and reference contribute, so
// soft-clipped bases and skipped introns are excluded.
func alignedPositions(rec *sam.Record) []int {
	var out []int
	pos := rec.Pos
	for _, co := range rec.Cigar {
		con := co.Type().Consumes()
		if con.Query == 1 && con.Reference == 1 {
			for i := 0; i < co.Len(); i++ {
				out = append(out, pos+i)
			}
		}
		pos += co.Len() * con.Reference
	}
	return out
}
