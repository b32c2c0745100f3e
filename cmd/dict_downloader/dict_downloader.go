package main

import (
	"flag"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/internal/cli"
	"github.com/wbrown/uk_stress/resources"
)

// Fetches a published dictionary into a local directory and checks that it
// loads.

func main() {
	dictURL := flag.String("url", "",
		"base URL the dictionary is published under")
	destPath := flag.String("dest", "./",
		"where to download the dictionary to")
	flag.Parse()
	cli.SetupLog("", "info")
	if *dictURL == "" {
		flag.Usage()
		log.Fatal().Msg("Must provide -url")
	}

	if err := os.MkdirAll(*destPath, 0755); err != nil {
		log.Fatal().Err(err).Send()
	}
	localPath, err := resources.Download(*dictURL,
		resources.DefaultDictionaryName, *destPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error downloading the dictionary")
	}
	rsrc, err := resources.MapFile(localPath)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer rsrc.Cleanup()
	dict, err := dictionary.FromBytes(*rsrc.Data)
	if err != nil {
		log.Fatal().Err(err).Msgf("%s is not a usable dictionary", localPath)
	}
	log.Info().Msgf("%s holds %s words", localPath,
		humanize.Comma(int64(dict.Len())))
}
