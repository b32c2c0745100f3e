package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress"
	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/internal/cli"
	"github.com/wbrown/uk_stress/resources"
	"github.com/wbrown/uk_stress/types"
)

// A REPL for looking words up in a stress dictionary. Each line is a word,
// optionally followed by UPOS and feats to see how they narrow the
// candidates down:
//
//	>>> атласи NOUN Case=Gen|Number=Sing

// parseLine turns `word [UPOS [feats]]` into a parse token.
func parseLine(line string) (types.ParseToken, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return types.ParseToken{}, false
	}
	fields = append(fields, "", "")
	return types.WordToken(fields[0], fields[1], fields[2]), true
}

func describe(w io.Writer, resolver *uk_stress.Resolver,
	parse types.ParseToken, symbol string) error {
	candidates, found, err := resolver.Candidates(parse)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(w, "%s: not in the dictionary\n", parse.Text)
		return nil
	}
	for _, candidate := range candidates {
		fmt.Fprintf(w, "  %s\t%v\n",
			uk_stress.ApplyAccentPositions(parse.Text, candidate.Accents,
				symbol), candidate.Tags)
	}
	if len(candidates) > 1 && parse.UPOS != "" {
		for _, candidate := range resolver.Eligible(candidates, parse) {
			fmt.Fprintf(w, "  eligible: %v\n", candidate)
		}
	}
	accents, err := resolver.FindAccentPositions(parse)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s (%s)\n",
		uk_stress.ApplyAccentPositions(parse.Text, accents, symbol),
		resolver.Policy())
	return nil
}

func main() {
	dictPath := flag.String("dict", resources.DefaultDictionaryName,
		"dictionary path, directory or URL")
	onAmbiguity := flag.String("on-ambiguity", "all",
		"what to do with unresolved ambiguity [skip, first, all]")
	symbol := flag.String("symbol", uk_stress.AcuteAccent,
		"stress mark to insert")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()
	cli.SetupLog("", cli.VerboseLevel(*verbose))

	policy, err := uk_stress.ParsePolicy(*onAmbiguity)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	dict, err := dictionary.Load(*dictPath, "")
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer dict.Close()
	resolver, err := uk_stress.NewResolver(dict, uk_stress.WithPolicy(policy))
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(">>> ")
		input, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Println()
			return
		} else if err != nil {
			log.Fatal().Err(err).Send()
		}
		parse, ok := parseLine(input)
		if !ok {
			continue
		}
		if err := describe(os.Stdout, resolver, parse, *symbol); err != nil {
			fmt.Printf("error: %s\n", err)
		}
	}
}
