package phasing

import (
	"errors"
	"fmt"

	"github.com/ribokit/riboprof/checkpoint"
	"github.com/ribokit/riboprof/roi"
)

// SizeArray is an alignment source that can restrict its counts to a
// read-length window, as a BAM-backed genome array does.
type SizeArray interface {
	SetSizeFilter(min, max int)
	CountVector(r *roi.ROI) []float64
}

// Row is one line of the phasing table.
type Row struct {
	// ReadLength is the aligned read length in nucleotides.
	ReadLength int `json:"readLength"`
	// ReadsCounted is the histogram total for this length.
	ReadsCounted float64 `json:"readsCounted"`
	// FractionReadsCounted is ReadsCounted over the total across all
	// read lengths of the run.
	FractionReadsCounted float64 `json:"fractionReadsCounted"`
	// Phase holds the fraction of counts at each codon sub-position.
	Phase [3]float64 `json:"phase"`
}

// Settings configures a phase-by-size run.
type Settings struct {
	// MinLength and MaxLength bound the read lengths analyzed,
	// inclusive.
	MinLength int
	MaxLength int
	// CodonBufferNt is the number of nucleotides trimmed from each end
	// of every coding region before tabulation.
	CodonBufferNt int
	// Checkpoint, when set, stores finished per-length histograms and
	// lets an interrupted run resume.
	Checkpoint *checkpoint.IO
}

// Run computes one phasing Row per read length in the configured
// range, ascending. Regions failing the whole-codon invariant are
// logged and skipped; they never abort the run. A length with no
// countable reads yields a zero row. Fractions of total reads are
// normalized over all lengths of the run, so rows are buffered and
// emitted together.
func (s *Settings) Run(rois roi.Source, aln SizeArray) ([]Row, error) {
	if s.MinLength < 1 || s.MaxLength < s.MinLength {
		return nil, fmt.Errorf("bad read length range [%d, %d]", s.MinLength, s.MaxLength)
	}

	rows := make([]Row, 0, s.MaxLength-s.MinLength+1)
	var total float64
	for length := s.MinLength; length <= s.MaxLength; length++ {
		acc, err := s.countLength(length, rois, aln)
		if err != nil {
			return nil, err
		}
		fractions, sum := acc.Finalize()
		rows = append(rows, Row{
			ReadLength:   length,
			ReadsCounted: sum,
			Phase:        fractions,
		})
		total += sum
	}

	// Total-read fractions need the grand total, hence the second
	// pass over the buffered rows.
	if total > 0 {
		for i := range rows {
			rows[i].FractionReadsCounted = rows[i].ReadsCounted / total
		}
	}
	return rows, nil
}

func (s *Settings) countLength(length int, rois roi.Source, aln SizeArray) (*Accumulator, error) {
	acc := &Accumulator{}

	if s.Checkpoint != nil {
		data, err := s.Checkpoint.Load(length)
		if err != nil {
			return nil, err
		}
		if data != nil {
			acc.SetBins(data.Bins)
			return acc, nil
		}
	}

	if err := rois.Reset(); err != nil {
		return nil, err
	}
	aln.SetSizeFilter(length, length)

	for {
		r, err := rois.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			break
		}
		switch err := acc.Add(aln.CountVector(r), s.CodonBufferNt); {
		case errors.Is(err, ErrShortRegion):
			log.Warningf("%s: %dnt region too short for a %dnt codon buffer, skipping",
				r.Name, r.Len(), s.CodonBufferNt)
		case err != nil:
			log.Errorf("%s: %v, skipping", r.Name, err)
		}
	}

	counted, skipped := acc.Regions()
	log.Infof("Read length %d: counted %d regions (%d skipped), %g reads",
		length, counted, skipped, acc.Sum())

	if s.Checkpoint != nil {
		err := s.Checkpoint.Save(length, &checkpoint.Data{
			Bins:    acc.Bins(),
			Regions: counted,
			Skipped: skipped,
		})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
