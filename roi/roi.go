// Package roi models coding-sequence regions of interest and sources
// producing them from genome annotations.
package roi

import (
	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("roi")

// ROI is a coding-sequence window over which read counts are
// aggregated. Positions holds the genomic coordinates of the coding
// region ordered from the 5' to the 3' end of the transcript; for
// minus-strand regions the coordinates are descending.
type ROI struct {
	// Name is the transcript or window identifier.
	Name string
	// Gene is the gene the transcript belongs to. Windows built by
	// MaximalSpanningWindow are named after their gene.
	Gene   string
	Chrom  string
	Strand byte
	// Positions are genomic coordinates, 5' to 3'.
	Positions []int
}

// Len returns the region length in nucleotides.
func (r *ROI) Len() int {
	return len(r.Positions)
}

// Source produces a restartable sequence of regions of interest.
type Source interface {
	// Next returns the next region, or nil once the source is
	// exhausted.
	Next() (*ROI, error)
	// Reset rewinds the source to the first region.
	Reset() error
}

// SliceSource adapts an in-memory region slice to Source.
type SliceSource struct {
	rois []*ROI
	next int
}

// NewSliceSource creates a Source iterating over rois.
func NewSliceSource(rois []*ROI) *SliceSource {
	return &SliceSource{rois: rois}
}

// Next implements Source.
func (s *SliceSource) Next() (*ROI, error) {
	if s.next >= len(s.rois) {
		return nil, nil
	}
	r := s.rois[s.next]
	s.next++
	return r, nil
}

// Reset implements Source.
func (s *SliceSource) Reset() error {
	s.next = 0
	return nil
}

// Len returns the number of regions in the source.
func (s *SliceSource) Len() int {
	return len(s.rois)
}
