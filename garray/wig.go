package garray

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WigEntry is one datum from a wiggle or bedGraph track, converted to
// zero-based half-open coordinates.
type WigEntry struct {
	Chrom      string
	Start, End int
	Value      float64
}

// WigReader reads fixedStep wiggle, variableStep wiggle, and bedGraph
// input entry by entry. fixedStep and variableStep coordinates are
// 1-based in the file and converted on the fly.
type WigReader struct {
	scanner *bufio.Scanner
	lineno  int

	// current data format: bedGraph until a wiggle header is seen
	format string
	chrom  string
	step   int
	span   int
	// next 1-based position for fixedStep data
	counter int
}

// NewWigReader creates a WigReader reading from rd.
func NewWigReader(rd io.Reader) *WigReader {
	return &WigReader{
		scanner: bufio.NewScanner(rd),
		format:  "bedGraph",
		step:    1,
		span:    1,
		counter: 1,
	}
}

// Next returns the next entry, or nil once the input is exhausted.
func (w *WigReader) Next() (*WigEntry, error) {
	for w.scanner.Scan() {
		w.lineno++
		line := strings.TrimSpace(w.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "variableStep", "fixedStep":
			if err := w.header(fields); err != nil {
				return nil, fmt.Errorf("line %d: %v", w.lineno, err)
			}
			continue
		}
		entry, err := w.entry(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", w.lineno, err)
		}
		return entry, nil
	}
	return nil, w.scanner.Err()
}

func (w *WigReader) header(fields []string) error {
	w.format = fields[0]
	w.step = 1
	w.span = 1
	w.counter = 1
	w.chrom = ""
	for _, f := range fields[1:] {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("bad %s parameter %q", w.format, f)
		}
		switch kv[0] {
		case "chrom":
			w.chrom = kv[1]
		case "start":
			v, err := strconv.Atoi(kv[1])
			if err != nil {
				return err
			}
			w.counter = v
		case "step":
			v, err := strconv.Atoi(kv[1])
			if err != nil {
				return err
			}
			w.step = v
		case "span":
			v, err := strconv.Atoi(kv[1])
			if err != nil {
				return err
			}
			w.span = v
		}
	}
	if w.chrom == "" {
		return fmt.Errorf("%s header without chrom", w.format)
	}
	return nil
}

func (w *WigReader) entry(fields []string) (*WigEntry, error) {
	switch w.format {
	case "bedGraph":
		if len(fields) != 4 {
			return nil, fmt.Errorf("expected 4 bedGraph columns, got %d", len(fields))
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, err
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, err
		}
		return &WigEntry{Chrom: fields[0], Start: start, End: end, Value: value}, nil
	case "variableStep":
		if len(fields) != 2 {
			return nil, fmt.Errorf("expected 2 variableStep columns, got %d", len(fields))
		}
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, err
		}
		return &WigEntry{Chrom: w.chrom, Start: pos - 1, End: pos - 1 + w.span, Value: value}, nil
	case "fixedStep":
		if len(fields) != 1 {
			return nil, fmt.Errorf("expected 1 fixedStep column, got %d", len(fields))
		}
		value, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, err
		}
		start := w.counter - 1
		w.counter += w.step
		return &WigEntry{Chrom: w.chrom, Start: start, End: start + w.span, Value: value}, nil
	}
	return nil, fmt.Errorf("unknown data format %q", w.format)
}

// ImportWig reads a wiggle or bedGraph track from rd into a, assigning
// all counts to the given strand. Wiggle tracks carry no strand, so
// stranded data ships as one file per strand.
func ImportWig(a *SparseArray, rd io.Reader, strand byte) error {
	w := NewWigReader(rd)
	n := 0
	for {
		e, err := w.Next()
		if err != nil {
			return err
		}
		if e == nil {
			break
		}
		for pos := e.Start; pos < e.End; pos++ {
			a.Add(e.Chrom, strand, pos, e.Value)
		}
		n++
	}
	log.Infof("Imported %d wiggle entries on strand %c", n, strand)
	return nil
}
