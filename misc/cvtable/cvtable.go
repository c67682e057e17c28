// Cvtable prints per-region count totals (and optionally full count
// vectors) for coding regions in a BED annotation, from either BAM
// alignments or wiggle/bedGraph tracks.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ribokit/riboprof/garray"
	"github.com/ribokit/riboprof/roi"
)

var (
	bedF       = flag.String("bed", "", "transcript annotation in BED format")
	bamF       = flag.String("bam", "", "BAM alignment file")
	wigFwdF    = flag.String("wig_fwd", "", "wiggle or bedGraph track for the forward strand")
	wigRevF    = flag.String("wig_rev", "", "wiggle or bedGraph track for the reverse strand")
	offset     = flag.Int("offset", 0, "P-site offset for BAM input")
	threeprime = flag.Bool("threeprime", false, "map BAM reads from the 3' end")
	vectors    = flag.Bool("vectors", false, "print full count vectors")
)

func bamArray() (garray.Array, error) {
	rule := garray.FivePrime
	if *threeprime {
		rule = garray.ThreePrime
	}
	a := garray.NewBAMArray(rule, *offset)
	if err := a.AddFile(*bamF); err != nil {
		return nil, err
	}
	return a, nil
}

func wigArray() (garray.Array, error) {
	a := garray.NewSparseArray()
	for _, in := range []struct {
		fn     string
		strand byte
	}{{*wigFwdF, '+'}, {*wigRevF, '-'}} {
		if in.fn == "" {
			continue
		}
		f, err := os.Open(in.fn)
		if err != nil {
			return nil, err
		}
		err = garray.ImportWig(a, f, in.strand)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func main() {
	flag.Parse()

	if *bedF == "" {
		log.Fatal("Please provide an annotation with -bed")
	}
	if (*bamF == "") == (*wigFwdF == "" && *wigRevF == "") {
		log.Fatal("Please provide either -bam or -wig_fwd/-wig_rev input")
	}

	bedFile, err := os.Open(*bedF)
	if err != nil {
		log.Fatal(err)
	}
	defer bedFile.Close()
	rois, err := roi.ReadBED(bedFile)
	if err != nil {
		log.Fatal(err)
	}

	var a garray.Array
	if *bamF != "" {
		a, err = bamArray()
	} else {
		a, err = wigArray()
	}
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("region\tlength\tcounts")
	for _, r := range rois {
		v := a.CountVector(r)
		var sum float64
		for _, c := range v {
			sum += c
		}
		fmt.Printf("%s\t%d\t%g\n", r.Name, r.Len(), sum)
		if *vectors {
			parts := make([]string, len(v))
			for i, c := range v {
				parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
			}
			fmt.Println(strings.Join(parts, ","))
		}
	}
}
