package garray

import (
	"strings"
	"testing"

	"github.com/ribokit/riboprof/roi"
)

const testBedGraph = `track type=bedGraph name=test
chrI	100	103	2.5
chrI	110	111	1
`

const testVariableStep = `track type=wiggle_0
variableStep chrom=chrI span=2
101	3
201	1.5
`

const testFixedStep = `fixedStep chrom=chrI start=101 step=10 span=1
1
2
3
`

func TestWigBedGraph(tst *testing.T) {
	w := NewWigReader(strings.NewReader(testBedGraph))
	e, err := w.Next()
	if err != nil {
		tst.Fatal("Error reading bedGraph:", err)
	}
	if e.Chrom != "chrI" || e.Start != 100 || e.End != 103 || e.Value != 2.5 {
		tst.Error("Wrong bedGraph entry:", e)
	}
	if e, err = w.Next(); err != nil || e.Start != 110 {
		tst.Error("Wrong second entry:", e, err)
	}
	if e, err = w.Next(); err != nil || e != nil {
		tst.Error("Expected end of input, got:", e, err)
	}
}

func TestWigVariableStep(tst *testing.T) {
	w := NewWigReader(strings.NewReader(testVariableStep))
	e, err := w.Next()
	if err != nil {
		tst.Fatal("Error reading variableStep:", err)
	}
	// wiggle positions are 1-based; spans extend the entry
	if e.Start != 100 || e.End != 102 || e.Value != 3 {
		tst.Error("Wrong variableStep entry:", e)
	}
	if e, err = w.Next(); err != nil || e.Start != 200 || e.End != 202 {
		tst.Error("Wrong second entry:", e, err)
	}
}

func TestWigFixedStep(tst *testing.T) {
	w := NewWigReader(strings.NewReader(testFixedStep))
	starts := []int{100, 110, 120}
	for i, want := range starts {
		e, err := w.Next()
		if err != nil {
			tst.Fatal("Error reading fixedStep:", err)
		}
		if e.Start != want || e.End != want+1 || e.Value != float64(i+1) {
			tst.Error("Wrong fixedStep entry:", e)
		}
	}
}

func TestWigBadHeader(tst *testing.T) {
	w := NewWigReader(strings.NewReader("variableStep span=1\n101\t1\n"))
	if _, err := w.Next(); err == nil {
		tst.Error("Expected error for header without chrom")
	}
}

func TestImportWig(tst *testing.T) {
	a := NewSparseArray()
	if err := ImportWig(a, strings.NewReader(testBedGraph), '+'); err != nil {
		tst.Fatal("Error importing wiggle:", err)
	}
	if a.Sum() != 2.5*3+1 {
		tst.Error("Wrong imported sum:", a.Sum())
	}

	r := &roi.ROI{Name: "t", Chrom: "chrI", Strand: '+', Positions: []int{100, 101, 102, 110}}
	v := a.CountVector(r)
	want := []float64{2.5, 2.5, 2.5, 1}
	for i := range want {
		if v[i] != want[i] {
			tst.Error("Wrong count vector:", v)
			break
		}
	}

	// other strand stays empty
	r.Strand = '-'
	for _, c := range a.CountVector(r) {
		if c != 0 {
			tst.Error("Counts leaked onto the other strand")
		}
	}
}
