// Package garray provides genome-array style per-position read counts
// over regions of interest, backed either by BAM alignments with a
// configurable P-site mapping rule or by imported wiggle/bedGraph
// tracks.
package garray

import (
	"github.com/op/go-logging"

	"github.com/ribokit/riboprof/roi"
)

// log is the global logging variable.
var log = logging.MustGetLogger("garray")

// Array returns per-position counts over a region of interest. The
// returned vector is ordered like the region's positions, 5' to 3'.
type Array interface {
	CountVector(r *roi.ROI) []float64
	// Sum returns the total counts held by the array.
	Sum() float64
}

type strandKey struct {
	chrom  string
	strand byte
}

// SparseArray holds counts keyed by chromosome, strand and position.
type SparseArray struct {
	counts map[strandKey]map[int]float64
	sum    float64
}

// NewSparseArray creates an empty SparseArray.
func NewSparseArray() *SparseArray {
	return &SparseArray{counts: make(map[strandKey]map[int]float64)}
}

// Add adds v to the counts at a single genomic position.
func (a *SparseArray) Add(chrom string, strand byte, pos int, v float64) {
	k := strandKey{chrom, strand}
	m := a.counts[k]
	if m == nil {
		m = make(map[int]float64)
		a.counts[k] = m
	}
	m[pos] += v
	a.sum += v
}

// Sum implements Array.
func (a *SparseArray) Sum() float64 {
	return a.sum
}

// CountVector implements Array.
func (a *SparseArray) CountVector(r *roi.ROI) []float64 {
	v := make([]float64, r.Len())
	m := a.counts[strandKey{r.Chrom, r.Strand}]
	if m == nil {
		return v
	}
	for i, pos := range r.Positions {
		v[i] = m[pos]
	}
	return v
}

// addInto accumulates the array's counts for r into v.
func (a *SparseArray) addInto(v []float64, r *roi.ROI) {
	m := a.counts[strandKey{r.Chrom, r.Strand}]
	if m == nil {
		return
	}
	for i, pos := range r.Positions {
		v[i] += m[pos]
	}
}
