package phasing

import (
	"bufio"
	"fmt"
	"io"
)

// WriteTable writes rows as a tab-delimited phasing table with a
// header line. Counts are printed as integers and fractions with six
// decimal places.
func WriteTable(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "read_length\treads_counted\tfraction_reads_counted\tphase0\tphase1\tphase2")
	for _, r := range rows {
		fmt.Fprintf(bw, "%d\t%.0f\t%.6f\t%.6f\t%.6f\t%.6f\n",
			r.ReadLength, r.ReadsCounted, r.FractionReadsCounted,
			r.Phase[0], r.Phase[1], r.Phase[2])
	}
	return bw.Flush()
}
