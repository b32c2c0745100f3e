package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress"
	"github.com/wbrown/uk_stress/config"
	"github.com/wbrown/uk_stress/internal/cli"
	"github.com/wbrown/uk_stress/types"
)

// Reads sentences, one per line, and writes a JSON line for every sentence
// holding words the tagger could not disambiguate, for manual review:
//
//	{"sentence":"Високий замок стояв на горі.","ambiguities":[{"word":"замок",
//	 "matches":[{"tags":[...],"stress":[2]},{"tags":[...],"stress":[4]}],
//	 "parse":{"id":2,"text":"замок",...}}]}

type Ambiguity struct {
	Word    string            `json:"word"`
	Matches []types.Candidate `json:"matches"`
	Parse   types.ParseToken  `json:"parse"`
}

type Row struct {
	Sentence    string      `json:"sentence"`
	Ambiguities []Ambiguity `json:"ambiguities"`
}

// Harvester records ambiguities while stressifying. It is not safe for
// concurrent use.
type Harvester struct {
	Stressifier *uk_stress.Stressifier
	pending     []Ambiguity
}

// Policy returns the ambiguity policy that feeds the harvester. It falls
// back to the first candidate.
func (h *Harvester) Policy() uk_stress.Policy {
	return uk_stress.Custom(func(candidates []types.Candidate,
		parse types.ParseToken) types.AccentPattern {
		h.pending = append(h.pending, Ambiguity{
			Word:    parse.Text,
			Matches: candidates,
			Parse:   parse,
		})
		return candidates[0].Accents
	})
}

// Harvest stressifies a sentence, returning nil when nothing in it was
// ambiguous.
func (h *Harvester) Harvest(ctx context.Context, sentence string) (*Row,
	error) {
	h.pending = nil
	if _, err := h.Stressifier.Stressify(ctx, sentence); err != nil {
		return nil, err
	}
	if len(h.pending) == 0 {
		return nil, nil
	}
	return &Row{Sentence: sentence, Ambiguities: h.pending}, nil
}

// HarvestLines writes a JSON line per ambiguous input line and returns how
// many lines it wrote.
func (h *Harvester) HarvestLines(ctx context.Context, r io.Reader,
	w io.Writer) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	written := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		row, err := h.Harvest(ctx, line)
		if err != nil {
			return written, err
		}
		if row == nil {
			continue
		}
		encoded, err := sonic.Marshal(row)
		if err != nil {
			return written, err
		}
		if _, err := w.Write(append(encoded, '\n')); err != nil {
			return written, err
		}
		written++
	}
	return written, scanner.Err()
}

func main() {
	configPath := flag.String("config", "",
		"YAML configuration file, defaults to $"+config.EnvConfigPath)
	dictPath := flag.String("dict", "",
		"dictionary path or URL, overrides the configuration")
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

	harvester := &Harvester{}
	harvester.Stressifier, err = uk_stress.NewStressifierFromConfig(cfg,
		uk_stress.WithStressSymbol("+"),
		uk_stress.WithPolicy(harvester.Policy()))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize the stressifier")
	}
	defer harvester.Stressifier.Close()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	total := 0
	for _, path := range inputs {
		var r io.Reader = os.Stdin
		var f *os.File
		if path != "-" {
			if f, err = os.Open(path); err != nil {
				log.Fatal().Err(err).Send()
			}
			r = f
		}
		written, err := harvester.HarvestLines(context.Background(), r, out)
		if f != nil {
			f.Close()
		}
		total += written
		if err != nil {
			out.Flush()
			log.Fatal().Err(err).Str("path", path).Send()
		}
	}
	log.Info().Msgf("%d sentences with ambiguities", total)
}
