package main

// See doc.go for documentation

import (
	"flag"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bifrost/coverage"
	"github.com/grailbio/bifrost/unitig"
)

var (
	unitigsPath  = flag.String("unitigs", "", "TSV file of unitigs, with columns NAME and KMERS")
	mappingsPath = flag.String("mappings", "", "TSV file of mappings, with columns NAME, DIST, LEN and STRAND")
	outputPath   = flag.String("output", "", "Report path. A .gz suffix compresses the output")
	minLen       = flag.Int("min-len", unitig.DefaultOpts.MinLen, "Omit unitigs shorter than this many k-mers from the report")
	skipFull     = flag.Bool("skip-full", unitig.DefaultOpts.SkipFull, "Omit fully covered unitigs from the report")
	spans        = flag.Bool("spans", unitig.DefaultOpts.Spans, "Report the runs of fully and partially covered k-mers")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if *unitigsPath == "" || *outputPath == "" {
		log.Fatal("-unitigs and -output are required")
	}
	ctx := vcontext.Background()
	set, err := unitig.ReadUnitigs[coverage.NoData](ctx, *unitigsPath)
	if err != nil {
		log.Fatal(err)
	}
	if *mappingsPath != "" {
		if _, err = unitig.ReplayMappings(ctx, set, *mappingsPath); err != nil {
			log.Fatal(err)
		}
	}
	nSplit := 0
	for i := 0; i < set.Len(); i++ {
		if _, _, needSplit := set.At(i).LowCoverage(); needSplit {
			nSplit++
		}
	}
	log.Printf("%d of %d unitigs have both fully and partially covered k-mers", nSplit, set.Len())
	opts := unitig.Opts{
		MinLen:   *minLen,
		SkipFull: *skipFull,
		Spans:    *spans,
	}
	if err = unitig.WriteReport(ctx, set, *outputPath, opts); err != nil {
		log.Fatal(err)
	}
}
