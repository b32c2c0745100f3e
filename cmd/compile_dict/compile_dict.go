package main

import (
	"bufio"
	"flag"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress/compiler"
	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/internal/cli"
	"github.com/wbrown/uk_stress/resources"
)

// Compiles a stress lexicon CSV (form,type,tag) into a dictionary file.

func main() {
	inputPath := flag.String("input", "ulif_accents.csv",
		"lexicon CSV with form, type and tag columns")
	outputPath := flag.String("output", resources.DefaultDictionaryName,
		"dictionary file to write")
	verify := flag.Bool("verify", true,
		"load the written dictionary and decode every record")
	verbose := flag.Bool("v", false, "log every skipped row")
	flag.Parse()
	level := "info"
	if *verbose {
		level = cli.VerboseLevel(true)
	}
	cli.SetupLog("", level)

	in, err := os.Open(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer in.Close()

	begin := time.Now()
	tmpPath := *outputPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	w := bufio.NewWriterSize(out, 8*1024*1024)
	report, err := compiler.Compile(bufio.NewReader(in), w)
	if err == nil {
		err = w.Flush()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		log.Fatal().Err(err).Msgf("Compiling %s failed", *inputPath)
	}
	if err := os.Rename(tmpPath, *outputPath); err != nil {
		log.Fatal().Err(err).Send()
	}
	log.Info().Msgf("%s", report)
	log.Info().Msgf("Wrote %s to %s in %0.2fs",
		humanize.Bytes(uint64(report.Bytes)), *outputPath,
		time.Since(begin).Seconds())

	if !*verify {
		return
	}
	rsrc, err := resources.MapFile(*outputPath)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer rsrc.Cleanup()
	dict, err := dictionary.FromBytes(*rsrc.Data)
	if err != nil {
		log.Fatal().Err(err).Msg("Written dictionary does not load")
	}
	keys, err := dict.Verify()
	if err != nil {
		log.Fatal().Err(err).Msg("Written dictionary is corrupt")
	}
	log.Info().Msgf("Verified %s keys", humanize.Comma(int64(keys)))
}
