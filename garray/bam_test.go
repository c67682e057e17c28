package garray

import (
	"testing"

	"github.com/biogo/hts/sam"

	"github.com/ribokit/riboprof/roi"
)

func testRef(tst *testing.T) *sam.Reference {
	ref, err := sam.NewReference("chrI", "", "", 100000, nil, nil)
	if err != nil {
		tst.Fatal("Error creating reference:", err)
	}
	return ref
}

func matchRecord(ref *sam.Reference, name string, pos, length int, reverse bool) *sam.Record {
	rec := &sam.Record{
		Name:  name,
		Ref:   ref,
		Pos:   pos,
		Cigar: sam.Cigar{sam.NewCigarOp(sam.CigarMatch, length)},
	}
	if reverse {
		rec.Flags |= sam.Reverse
	}
	return rec
}

func testROI(strand byte, start, n int) *roi.ROI {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = start + i
	}
	if strand == '-' {
		for i, j := 0, len(positions)-1; i < j; i, j = i+1, j-1 {
			positions[i], positions[j] = positions[j], positions[i]
		}
	}
	return &roi.ROI{Name: "t", Chrom: "chrI", Strand: strand, Positions: positions}
}

func TestFivePrimeMapping(tst *testing.T) {
	ref := testRef(tst)
	a := NewBAMArray(FivePrime, 2)
	a.AddRecord(matchRecord(ref, "fwd", 100, 28, false))
	a.AddRecord(matchRecord(ref, "rev", 100, 28, true))

	fwd := testROI('+', 90, 30)
	v := a.CountVector(fwd)
	// forward read P-site is pos+offset
	if v[102-90] != 1 {
		tst.Error("Forward read mapped wrong:", v)
	}

	rev := testROI('-', 90, 50)
	v = a.CountVector(rev)
	// reverse read 5' end is the alignment end; P-site at 127-2=125,
	// index counted from the 3' end of the minus-strand region
	found := false
	for i, pos := range rev.Positions {
		if pos == 125 && v[i] == 1 {
			found = true
		}
	}
	if !found {
		tst.Error("Reverse read mapped wrong:", v)
	}
}

func TestThreePrimeMapping(tst *testing.T) {
	ref := testRef(tst)
	a := NewBAMArray(ThreePrime, 0)
	a.AddRecord(matchRecord(ref, "fwd", 100, 28, false))

	v := a.CountVector(testROI('+', 100, 30))
	// forward read 3' end is the last aligned position
	if v[27] != 1 {
		tst.Error("Three-prime mapping wrong:", v)
	}
}

func TestSplicedAlignment(tst *testing.T) {
	ref := testRef(tst)
	a := NewBAMArray(FivePrime, 12)
	// 10M followed by a 100nt intron and 18M; offset 12 lands 2nt into
	// the second exon
	rec := &sam.Record{
		Name: "spliced",
		Ref:  ref,
		Pos:  100,
		Cigar: sam.Cigar{
			sam.NewCigarOp(sam.CigarMatch, 10),
			sam.NewCigarOp(sam.CigarSkipped, 100),
			sam.NewCigarOp(sam.CigarMatch, 18),
		},
	}
	a.AddRecord(rec)

	v := a.CountVector(testROI('+', 210, 20))
	if v[212-210] != 1 {
		tst.Error("Spliced read mapped wrong:", v)
	}
}

func TestSizeFilter(tst *testing.T) {
	ref := testRef(tst)
	a := NewBAMArray(FivePrime, 0)
	a.AddRecord(matchRecord(ref, "r28", 100, 28, false))
	a.AddRecord(matchRecord(ref, "r29", 100, 29, false))
	a.AddRecord(matchRecord(ref, "r29b", 100, 29, false))

	r := testROI('+', 100, 3)
	a.SetSizeFilter(28, 28)
	if v := a.CountVector(r); v[0] != 1 {
		tst.Error("Size filter 28 wrong:", v)
	}
	if a.Sum() != 1 {
		tst.Error("Filtered sum wrong:", a.Sum())
	}
	a.SetSizeFilter(29, 29)
	if v := a.CountVector(r); v[0] != 2 {
		tst.Error("Size filter 29 wrong:", v)
	}
	a.SetSizeFilter(0, 0)
	if a.Sum() != 3 {
		tst.Error("Open filter sum wrong:", a.Sum())
	}

	lengths := a.Lengths()
	if len(lengths) != 2 || lengths[0] != 28 || lengths[1] != 29 {
		tst.Error("Wrong lengths:", lengths)
	}
}

func TestShortReadIgnored(tst *testing.T) {
	ref := testRef(tst)
	a := NewBAMArray(FivePrime, 30)
	a.AddRecord(matchRecord(ref, "short", 100, 20, false))
	a.SetSizeFilter(0, 0)
	if a.Sum() != 0 {
		tst.Error("Read shorter than the offset was counted")
	}
}

func TestUnmappedIgnored(tst *testing.T) {
	a := NewBAMArray(FivePrime, 0)
	rec := &sam.Record{Name: "unmapped", Flags: sam.Unmapped}
	a.AddRecord(rec)
	if a.Sum() != 0 {
		tst.Error("Unmapped read was counted")
	}
}
