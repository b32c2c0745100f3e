package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress"
	"github.com/wbrown/uk_stress/config"
	"github.com/wbrown/uk_stress/internal/cli"
)

// Adds stress marks to Ukrainian text read from files, a directory of
// `.txt` files, or stdin.

func main() {
	configPath := flag.String("config", "",
		"YAML configuration file, defaults to $"+config.EnvConfigPath)
	dictPath := flag.String("dict", "",
		"dictionary path or URL, overrides the configuration")
	onAmbiguity := flag.String("on-ambiguity", "",
		"what to do with unresolved ambiguity [skip, first, all]")
	symbol := flag.String("symbol", "",
		"stress mark to insert, e.g. ´ or +")
	taggerKind := flag.String("tagger", "",
		"tagger to use [udpipe, command, prose, simple]")
	inputDir := flag.String("input", "",
		"directory of .txt files to process instead of arguments")
	outputDir := flag.String("output", "stressed",
		"where -input results are written")
	workers := flag.Int("workers", 4, "files processed at once with -input")
	force := flag.Bool("force", false,
		"reprocess files whose output is newer than the input")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	level := cfg.Log.Level
	if *verbose {
		level = cli.VerboseLevel(true)
	}
	cli.SetupLog(cfg.Log.Path, level)

	if *dictPath != "" {
		cfg.Dictionary.Path = *dictPath
		cfg.Dictionary.URL = ""
	}
	if *onAmbiguity != "" {
		cfg.Stress.OnAmbiguity = *onAmbiguity
	}
	if *symbol != "" {
		cfg.Stress.Symbol = *symbol
	}
	if *taggerKind != "" {
		cfg.Tagger.Kind = *taggerKind
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Send()
	}

	stressifier, err := uk_stress.NewStressifierFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize the stressifier")
	}
	defer stressifier.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *inputDir != "" {
		begin := time.Now()
		files, total, err := StressifyDir(ctx, stressifier, *inputDir,
			*outputDir, *workers, *force)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		duration := time.Since(begin).Seconds()
		log.Info().Msgf("%d files, %s in %0.2fs, %s/s", files,
			humanize.Bytes(uint64(total)), duration,
			humanize.Bytes(uint64(float64(total)/duration)))
		hits, misses := stressifier.Resolver.CacheStats()
		log.Info().Int64("hits", hits).Int64("misses", misses).
			Msg("Dictionary cache")
		return
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	if flag.NArg() == 0 {
		if err := stressifyReader(ctx, stressifier, os.Stdin, out); err != nil {
			log.Fatal().Err(err).Send()
		}
		return
	}
	for _, path := range flag.Args() {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		err = stressifyReader(ctx, stressifier, f, out)
		f.Close()
		if err != nil {
			out.Flush()
			log.Fatal().Err(err).Str("path", path).Send()
		}
	}
}

func stressifyReader(ctx context.Context, stressifier *uk_stress.Stressifier,
	r io.Reader, w io.Writer) error {
	text, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	stressed, err := stressifier.Stressify(ctx, string(text))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, stressed)
	return err
}
