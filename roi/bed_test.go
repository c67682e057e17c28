package roi

import (
	"strings"
	"testing"
)

const bedPlus = "chrI\t100\t200\ttx1\t0\t+\t110\t190\t0\t2\t30,40\t0,60\tgene1\n"
const bedMinus = "chrI\t100\t160\ttx2\t0\t-\t100\t160\t0\t1\t60\t0\n"

func TestReadBEDPlus(tst *testing.T) {
	rois, err := ReadBED(strings.NewReader("track name=test\n" + bedPlus))
	if err != nil {
		tst.Fatal("Error reading BED:", err)
	}
	if len(rois) != 1 {
		tst.Fatal("Expected 1 region, got:", len(rois))
	}
	r := rois[0]
	if r.Name != "tx1" || r.Gene != "gene1" || r.Chrom != "chrI" || r.Strand != '+' {
		tst.Error("Wrong region attributes:", r)
	}
	// block 1 is 100-130, block 2 is 160-200; the coding region
	// 110-190 intersects them as 110-130 and 160-190
	if r.Len() != 50 {
		tst.Error("Wrong coding length, got:", r.Len())
	}
	if r.Positions[0] != 110 || r.Positions[19] != 129 || r.Positions[20] != 160 || r.Positions[49] != 189 {
		tst.Error("Wrong coding positions:", r.Positions[0], r.Positions[19], r.Positions[20], r.Positions[49])
	}
}

func TestReadBEDMinus(tst *testing.T) {
	rois, err := ReadBED(strings.NewReader(bedMinus))
	if err != nil {
		tst.Fatal("Error reading BED:", err)
	}
	r := rois[0]
	if r.Strand != '-' {
		tst.Error("Wrong strand:", string(r.Strand))
	}
	// positions run 5' to 3', so descending genomic coordinates
	if r.Positions[0] != 159 || r.Positions[len(r.Positions)-1] != 100 {
		tst.Error("Minus-strand positions not 5' to 3':", r.Positions[0], r.Positions[len(r.Positions)-1])
	}
	// name doubles as gene without the extra column
	if r.Gene != "tx2" {
		tst.Error("Wrong gene fallback:", r.Gene)
	}
}

func TestReadBEDNoncoding(tst *testing.T) {
	line := "chrI\t100\t200\tnc1\t0\t+\t100\t100\t0\t1\t100\t0\n"
	rois, err := ReadBED(strings.NewReader(line))
	if err != nil {
		tst.Fatal("Error reading BED:", err)
	}
	if len(rois) != 0 {
		tst.Error("Noncoding record not skipped:", rois)
	}
}

func TestReadBEDBad(tst *testing.T) {
	if _, err := ReadBED(strings.NewReader("chrI\tnotanumber\t200\tt\t0\t+\n")); err == nil {
		tst.Error("Expected error for a malformed record")
	}
	if _, err := ReadBED(strings.NewReader("chrI\t100\t200\tt\t0\t?\n")); err == nil {
		tst.Error("Expected error for a bad strand")
	}
}

func TestSliceSourceRestart(tst *testing.T) {
	src := NewSliceSource([]*ROI{{Name: "a"}, {Name: "b"}})
	for pass := 0; pass < 2; pass++ {
		n := 0
		for {
			r, err := src.Next()
			if err != nil {
				tst.Fatal("Error iterating:", err)
			}
			if r == nil {
				break
			}
			n++
		}
		if n != 2 {
			tst.Errorf("Pass %d saw %d regions", pass, n)
		}
		if err := src.Reset(); err != nil {
			tst.Fatal("Error resetting:", err)
		}
	}
}
