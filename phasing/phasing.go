/*
Package phasing measures sub-codon phasing (triplet periodicity) of
ribosome-protected footprints over coding regions.

Counts mapped to P-sites are tabulated into the three codon
sub-positions after trimming a buffer from each end of the coding
region. Strong enrichment of one sub-position over the other two is
diagnostic of reads reporting the ribosomal reading frame.
*/
package phasing

import (
	"errors"
	"fmt"

	"github.com/gonum/floats"
	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("phasing")

// ErrShortRegion marks a region too short to contain a single codon
// after trimming; callers normally skip the region with a warning
// rather than treating it as malformed.
var ErrShortRegion = errors.New("region shorter than one codon after trimming")

// Accumulator tabulates position counts into the three codon
// sub-positions. The zero value is ready to use.
type Accumulator struct {
	bins [3]float64
	// regions counted and skipped, for reporting
	nRegions int
	nSkipped int
}

// Add trims codonBufferNt positions from each end of v and adds the
// column-wise codon sums into the histogram. The trimmed vector must
// be a whole number of codons long; otherwise an error is returned and
// the histogram is left untouched. Vectors too short for the buffer
// return ErrShortRegion.
func (a *Accumulator) Add(v []float64, codonBufferNt int) error {
	if codonBufferNt < 0 {
		return fmt.Errorf("negative codon buffer %dnt", codonBufferNt)
	}
	if len(v) < 2*codonBufferNt+3 {
		a.nSkipped++
		return ErrShortRegion
	}
	t := v[codonBufferNt : len(v)-codonBufferNt]
	if len(t)%3 != 0 {
		a.nSkipped++
		return fmt.Errorf("trimmed length %dnt is not a whole number of codons", len(t))
	}
	for i := 0; i < len(t); i += 3 {
		a.bins[0] += t[i]
		a.bins[1] += t[i+1]
		a.bins[2] += t[i+2]
	}
	a.nRegions++
	return nil
}

// Bins returns the current histogram.
func (a *Accumulator) Bins() [3]float64 {
	return a.bins
}

// SetBins replaces the histogram, e.g. with one loaded from a
// checkpoint.
func (a *Accumulator) SetBins(bins [3]float64) {
	a.bins = bins
}

// Sum returns the total counts in the histogram.
func (a *Accumulator) Sum() float64 {
	return floats.Sum(a.bins[:])
}

// Regions returns how many regions were counted and how many were
// skipped.
func (a *Accumulator) Regions() (counted, skipped int) {
	return a.nRegions, a.nSkipped
}

// Finalize converts the histogram into per-phase fractions. An empty
// histogram yields zero fractions rather than NaN, so downstream
// tables stay well formed. Finalize does not modify the accumulator.
func (a *Accumulator) Finalize() (fractions [3]float64, sum float64) {
	return Fractions(a.bins)
}

// Fractions normalizes a 3-bin histogram to per-phase fractions. A
// zero histogram yields zero fractions.
func Fractions(bins [3]float64) (fractions [3]float64, sum float64) {
	sum = floats.Sum(bins[:])
	if sum == 0 {
		return fractions, 0
	}
	for i, b := range bins {
		fractions[i] = b / sum
	}
	return fractions, sum
}
