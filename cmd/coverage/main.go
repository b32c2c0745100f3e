package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress"
	"github.com/wbrown/uk_stress/config"
	"github.com/wbrown/uk_stress/internal/cli"
	"github.com/wbrown/uk_stress/tagger"
	"github.com/wbrown/uk_stress/types"
)

// Counts the words of a test corpus left without stress. Words are
// skipped when disambiguation fails, when they are not in the dictionary,
// or when the dictionary lacks accents for them.

const coverageSymbol = "+"

const progressEvery = 1000

// sentenceText cuts a sentence out of text and shifts its tokens to be
// relative to the cut.
func sentenceText(text []rune, sentence types.Sentence) (string,
	types.Sentence) {
	if len(sentence) == 0 {
		return "", sentence
	}
	start := sentence[0].StartChar
	end := sentence[len(sentence)-1].EndChar
	if start < 0 || end > len(text) || start > end {
		return "", nil
	}
	shifted := make(types.Sentence, len(sentence))
	for idx, token := range sentence {
		token.StartChar -= start
		token.EndChar -= start
		shifted[idx] = token
	}
	return string(text[start:end]), shifted
}

// measureCoNLLU stressifies a tagged corpus using its own parse.
func measureCoNLLU(ctx context.Context, stressifier *uk_stress.Stressifier,
	r io.Reader, coverage *Coverage) error {
	doc, err := tagger.ParseCoNLLU(r, "")
	if err != nil {
		return err
	}
	text := []rune(doc.Text)
	for idx, sentence := range doc.Sentences {
		original, shifted := sentenceText(text, sentence)
		if original == "" {
			continue
		}
		stressed, err := stressifier.StressifySentences(ctx, original,
			[]types.Sentence{shifted})
		if err != nil {
			return err
		}
		coverage.Add(original, stressed)
		if (idx+1)%progressEvery == 0 {
			log.Info().Msgf("%d sentences, coverage %.2f%%", idx+1,
				100*coverage.Ratio())
		}
	}
	return nil
}

// measureLines stressifies plain text one line at a time.
func measureLines(ctx context.Context, stressifier *uk_stress.Stressifier,
	r io.Reader, coverage *Coverage) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	lines := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		stressed, err := stressifier.Stressify(ctx, line)
		if err != nil {
			return err
		}
		coverage.Add(line, stressed)
		lines++
		if lines%progressEvery == 0 {
			log.Info().Msgf("%d lines, coverage %.2f%%", lines,
				100*coverage.Ratio())
		}
	}
	return scanner.Err()
}

func report(w io.Writer, coverage *Coverage, top int) {
	fmt.Fprintf(w, "Top %d missed tokens:\n", top)
	for _, missed := range coverage.TopMissed(top) {
		fmt.Fprintf(w, "%-30s: %d\n", missed.Token, missed.Count)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stressable tokens: %d\n", coverage.Total)
	fmt.Fprintf(w, "Stressed tokens:   %d\n", coverage.Stressed)
	fmt.Fprintf(w, "Missed tokens:     %d\n", coverage.Total-coverage.Stressed)
	fmt.Fprintf(w, "Coverage:          %.2f%%\n", 100*coverage.Ratio())
}

func main() {
	configPath := flag.String("config", "",
		"YAML configuration file, defaults to $"+config.EnvConfigPath)
	dictPath := flag.String("dict", "",
		"dictionary path or URL, overrides the configuration")
	conllu := flag.Bool("conllu", false,
		"inputs are CoNLL-U; use their tags instead of running the tagger")
	top := flag.Int("top", 50, "how many missed tokens to list")
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

	stressifier, err := uk_stress.NewStressifierFromConfig(cfg,
		uk_stress.WithStressSymbol(coverageSymbol))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize the stressifier")
	}
	defer stressifier.Close()

	measure := measureLines
	if *conllu {
		measure = measureCoNLLU
	}
	ctx := context.Background()
	coverage := NewCoverage(coverageSymbol)
	if flag.NArg() == 0 {
		if err := measure(ctx, stressifier, os.Stdin, coverage); err != nil {
			log.Fatal().Err(err).Send()
		}
	}
	for _, path := range flag.Args() {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		err = measure(ctx, stressifier, bufio.NewReader(f), coverage)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Send()
		}
	}
	report(os.Stdout, coverage, *top)
}
