// Copyright 2024 Genobase Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This binary prints record counts and per-chromosome statistics for genomic
// data files (FASTA, FASTQ, SAM and VCF).
package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/profile"

	"github.com/genobase/bioread/fasta"
	"github.com/genobase/bioread/fastq"
	"github.com/genobase/bioread/genomics"
	"github.com/genobase/bioread/sam"
	"github.com/genobase/bioread/stats"
	"github.com/genobase/bioread/vcf"
)

var (
	format     = flag.String("format", "", "input format: fasta, fastq, sam or vcf (default: from the file extension)")
	region     = flag.String("region", "", "restrict SAM/VCF output to a chrom:start-end region")
	profileDir = flag.String("profile", "", "write a CPU profile to this directory")
)

func main() {
	flag.Parse()

	if *profileDir != "" {
		defer profile.Start(profile.ProfilePath(*profileDir)).Stop()
	}
	if flag.NArg() == 0 {
		log.Fatal("no input files specified")
	}

	var filter *genomics.Region
	if *region != "" {
		parsed, err := parseRegion(*region)
		if err != nil {
			log.Fatal("Failed to parse region", "region", *region, "err", err)
		}
		filter = &parsed
	}

	for _, path := range flag.Args() {
		kind := *format
		if kind == "" {
			kind = detectFormat(path)
		}
		var err error
		switch kind {
		case "fasta":
			err = runFasta(path)
		case "fastq":
			err = runFastq(path)
		case "sam":
			err = runSam(path, filter)
		case "vcf":
			err = runVcf(path, filter)
		default:
			log.Fatal("Unknown input format", "file", path, "format", kind)
		}
		if err != nil {
			log.Fatal("Failed to analyze file", "file", path, "err", err)
		}
	}
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fa", ".fasta", ".fna":
		return "fasta"
	case ".fastq", ".fq":
		return "fastq"
	case ".sam":
		return "sam"
	case ".vcf":
		return "vcf"
	}
	return ""
}

// parseRegion parses a "chrom:start-end" window with a half-open interval.
func parseRegion(s string) (genomics.Region, error) {
	chrom, window, ok := strings.Cut(s, ":")
	if !ok {
		return genomics.WholeChromosome(s), nil
	}
	from, to, ok := strings.Cut(window, "-")
	if !ok {
		return genomics.Region{}, fmt.Errorf("window %q is not start-end", window)
	}
	start, err := strconv.ParseInt(from, 10, 64)
	if err != nil {
		return genomics.Region{}, fmt.Errorf("bad start %q", from)
	}
	end, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return genomics.Region{}, fmt.Errorf("bad end %q", to)
	}
	if end != 0 && end <= start {
		return genomics.Region{}, fmt.Errorf("empty window %q", window)
	}
	return genomics.Region{Chrom: chrom, Start: start, End: end}, nil
}

func runFasta(path string) error {
	r, err := fasta.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	count, err := r.Count()
	if err != nil {
		return err
	}
	mean, err := r.MeanLength()
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d sequences, mean length %.1f\n", path, count, mean)
	return nil
}

func runFastq(path string) error {
	r, err := fastq.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	s, err := fastq.Summarize(r)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d reads, mean length %.1f, mean quality %.1f, GC %.1f%%\n",
		path, s.Records, s.MeanLength, s.MeanQuality, s.GCPercent)
	return nil
}

func runSam(path string, filter *genomics.Region) error {
	r, err := sam.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	header, err := r.Header()
	if err != nil {
		return err
	}
	count, err := r.Count()
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d header groups, %d alignments\n", path, len(header), count)

	table, err := r.StatsByChromosome()
	if err != nil {
		return err
	}
	printTable(table)

	if filter == nil {
		return nil
	}
	it, err := r.FilterByRegion(*filter)
	if err != nil {
		return err
	}
	for {
		rec, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("  %s\t%s:%d-%d\tMAPQ=%d\n", rec.ID, rec.Chrom, rec.Start, rec.End, rec.MapQ)
	}
}

func runVcf(path string, filter *genomics.Region) error {
	r, err := vcf.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	header, err := r.Header()
	if err != nil {
		return err
	}
	count, err := r.Count()
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d meta-header lines, %d variants\n", path, len(header), count)

	table, err := r.StatsByRegion()
	if err != nil {
		return err
	}
	printTable(table)

	if filter == nil {
		return nil
	}
	it, err := r.FilterByRegion(*filter)
	if err != nil {
		return err
	}
	for {
		rec, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("  %s:%d\t%s>%s\n", rec.Chrom, rec.Pos, rec.Ref, rec.Alt)
	}
}

func printTable(table stats.Table) {
	for _, row := range table {
		fmt.Printf("  %s\t%d\n", row.Label, row.Count)
	}
}
