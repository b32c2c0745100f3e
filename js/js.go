package main

//go:generate gopherjs build --minify

import (
	"context"
	"log"

	"github.com/gopherjs/gopherjs/js"

	"github.com/wbrown/uk_stress"
	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/tagger"
)

var stressifier *uk_stress.Stressifier

// LoadDictionary installs a compiled dictionary fetched by the page. The
// simple tagger is used, as no morphological tagger runs in the browser.
// It returns an error message, empty on success.
func LoadDictionary(data []byte, symbol string) string {
	dict, err := dictionary.FromBytes(data)
	if err != nil {
		return err.Error()
	}
	if symbol == "" {
		symbol = uk_stress.AcuteAccent
	}
	loaded, err := uk_stress.NewStressifier(dict, tagger.Simple{},
		uk_stress.WithStressSymbol(symbol), uk_stress.WithPolicy(uk_stress.Skip))
	if err != nil {
		return err.Error()
	}
	stressifier = loaded
	log.Printf("Stress dictionary loaded, %d words", dict.Len())
	return ""
}

// Stressify returns text unchanged until a dictionary is loaded.
func Stressify(text string) string {
	if stressifier == nil {
		return text
	}
	stressed, err := stressifier.Stressify(context.Background(), text)
	if err != nil {
		log.Print(err)
		return text
	}
	return stressed
}

func init() {
	js.Module.Get("exports").Set("loadDictionary", LoadDictionary)
	js.Module.Get("exports").Set("stressify", Stressify)
}

func main() {

}
