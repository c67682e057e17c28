/*
Riboprof estimates sub-codon phasing in ribosome profiling data,
stratified by read length.

The basic usage looks like this:

	riboprof --count_files riboprofile.bam --annotation_files transcripts.bed myrun

, this maps each read to its P-site at a fixed offset from the 5' end,
tabulates P-sites over coding regions into the three codon
sub-positions for every read length in the configured range, and
writes the table to myrun_phasing.txt.

To see all the options run:

	riboprof --help
*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	"github.com/ribokit/riboprof/checkpoint"
	"github.com/ribokit/riboprof/garray"
	"github.com/ribokit/riboprof/phasing"
	"github.com/ribokit/riboprof/roi"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("riboprof")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("riboprof", "sub-codon phasing analysis for ribosome profiling").Version(version)

	// input/output
	outBase = app.Arg("outbase", "basename for output files").Required().String()
	countFiles = app.Flag("count_files", "BAM alignment file (repeat the flag for multiple files)").
			Required().ExistingFiles()
	annotationFiles = app.Flag("annotation_files", "transcript annotation file (repeat the flag for multiple files)").
			Required().ExistingFiles()
	annotationFormat = app.Flag("annotation_format", "annotation file format").
				Default("BED").Enum("BED")

	// P-site mapping
	fiveprime  = app.Flag("fiveprime", "map reads at an offset from the 5' end (default)").Bool()
	threeprime = app.Flag("threeprime", "map reads at an offset from the 3' end").Bool()
	offset     = app.Flag("offset", "nucleotides from the read end to the P-site").Default("14").Int()

	// phasing parameters
	codonBuffer = app.Flag("codon_buffer", "codons excluded at each end of every coding region").Default("5").Int()
	minLength   = app.Flag("min_length", "minimum read length").Default("25").Int()
	maxLength   = app.Flag("max_length", "maximum read length").Default("35").Int()
	noDedup     = app.Flag("no_dedup", "count every transcript isoform instead of one maximal spanning window per gene").Bool()

	// technical
	checkpointF = app.Flag("checkpoint", "save and resume per-read-length checkpoints in a file").String()
	cpuProfile  = app.Flag("cpuprofile", "write cpu profile to file").String()

	// logging
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()
)

// mappingRule derives the mapping rule from the flags; asking for both
// ends is an error.
func mappingRule() (garray.MappingRule, error) {
	if *fiveprime && *threeprime {
		return garray.FivePrime, fmt.Errorf("--fiveprime and --threeprime are mutually exclusive")
	}
	if *threeprime {
		return garray.ThreePrime, nil
	}
	return garray.FivePrime, nil
}

// loadAnnotation reads all annotation files and collapses isoforms
// into per-gene windows unless disabled.
func loadAnnotation() ([]*roi.ROI, error) {
	if *annotationFormat != "BED" {
		return nil, fmt.Errorf("unsupported annotation format: %s", *annotationFormat)
	}
	var rois []*roi.ROI
	for _, fn := range *annotationFiles {
		f, err := os.Open(fn)
		if err != nil {
			return nil, err
		}
		rs, err := roi.ReadBED(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %v", fn, err)
		}
		rois = append(rois, rs...)
	}
	if !*noDedup {
		rois = roi.MaximalSpanningWindow(rois)
	}
	return rois, nil
}

func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{}

	rule, err := mappingRule()
	if err != nil {
		log.Fatal(err)
	}
	if *offset < 0 {
		log.Fatalf("negative P-site offset %d", *offset)
	}
	if *codonBuffer < 0 {
		log.Fatalf("negative codon buffer %d", *codonBuffer)
	}

	// Unsupported alignment formats are rejected before any counting
	// starts.
	for _, fn := range *countFiles {
		if strings.ToLower(filepath.Ext(fn)) != ".bam" {
			log.Fatalf("unsupported alignment format: %s (only BAM is supported)", fn)
		}
	}

	rois, err := loadAnnotation()
	if err != nil {
		log.Fatal(err)
	}
	if len(rois) == 0 {
		log.Fatal("No coding regions in the annotation")
	}
	summary.Regions = len(rois)

	log.Infof("Mapping reads %dnt from their %s end", *offset, rule)
	aln := garray.NewBAMArray(rule, *offset)
	for _, fn := range *countFiles {
		if err := aln.AddFile(fn); err != nil {
			log.Fatalf("%s: %v", fn, err)
		}
	}
	aln.SetSizeFilter(0, 0)
	summary.Reads = aln.Sum()
	log.Infof("Counted %g reads total", summary.Reads)

	settings := &phasing.Settings{
		MinLength:     *minLength,
		MaxLength:     *maxLength,
		CodonBufferNt: 3 * *codonBuffer,
	}
	if *checkpointF != "" {
		cp, err := checkpoint.Open(*checkpointF)
		if err != nil {
			log.Fatal("Error opening checkpoint file:", err)
		}
		defer cp.Close()
		settings.Checkpoint = cp
	}

	rows, err := settings.Run(roi.NewSliceSource(rois), aln)
	if err != nil {
		log.Fatal(err)
	}
	summary.Rows = rows

	outFn := *outBase + "_phasing.txt"
	f, err := os.Create(outFn)
	if err != nil {
		log.Fatal("Error creating output file:", err)
	}
	defer f.Close()
	if err := phasing.WriteTable(f, rows); err != nil {
		log.Fatal("Error writing phasing table:", err)
	}
	log.Noticef("Wrote phasing table to %s", outFn)

	deltaT := time.Since(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()

	return
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "riboprof")
	logging.SetLevel(level, "phasing")
	logging.SetLevel(level, "garray")
	logging.SetLevel(level, "roi")
	logging.SetLevel(level, "checkpoint")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	summary := run()
	summary.Version = version
	summary.CommandLine = os.Args

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}
