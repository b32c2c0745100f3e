package main

import (
	"context"
	"fmt"

	"github.com/extism/go-pdk"
	msgpack "github.com/vmihailenco/msgpack/v5"

	"github.com/wbrown/uk_stress"
	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/tagger"
	"github.com/wbrown/uk_stress/types"
)

var stressifier *uk_stress.Stressifier

// TokenRequest is a single tagged token, msgpack encoded. ID is the 1-based
// position in the sentence; leave it out for a word on its own.
type TokenRequest struct {
	Text  string `msgpack:"text"`
	ID    int    `msgpack:"id"`
	UPOS  string `msgpack:"upos"`
	Feats string `msgpack:"feats"`
}

// loadStressifier builds the stressifier from a compiled dictionary. The
// "symbol" and "on_ambiguity" plugin settings apply when present.
func loadStressifier(data []byte, symbol, onAmbiguity string) error {
	dict, err := dictionary.FromBytes(data)
	if err != nil {
		return err
	}
	policy, err := uk_stress.ParsePolicy(onAmbiguity)
	if err != nil {
		return err
	}
	opts := []uk_stress.Option{uk_stress.WithPolicy(policy)}
	if symbol != "" {
		opts = append(opts, uk_stress.WithStressSymbol(symbol))
	}
	loaded, err := uk_stress.NewStressifier(dict, tagger.Simple{}, opts...)
	if err != nil {
		return err
	}
	stressifier = loaded
	return nil
}

func config(key string) string {
	value, _ := pdk.GetConfig(key)
	return value
}

//go:wasmexport load_dictionary
func LoadDictionary() int32 {
	err := loadStressifier(pdk.Input(), config("symbol"),
		config("on_ambiguity"))
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	return 0
}

//go:wasmexport stressify
func Stressify() int32 {
	if stressifier == nil {
		pdk.SetErrorString("no dictionary loaded")
		return 1
	}
	stressed, err := stressifier.Stressify(context.Background(),
		pdk.InputString())
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	pdk.OutputString(stressed)
	return 0
}

func findAccents(input []byte) ([]byte, error) {
	var request TokenRequest
	if err := msgpack.Unmarshal(input, &request); err != nil {
		return nil, err
	}
	parse := types.WordToken(request.Text, request.UPOS, request.Feats)
	parse.ID = request.ID
	accents, err := stressifier.Resolver.FindAccentPositions(parse)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal([]uint8(accents))
}

//go:wasmexport find_accents
func FindAccents() int32 {
	if stressifier == nil {
		pdk.SetErrorString("no dictionary loaded")
		return 1
	}
	out, err := findAccents(pdk.Input())
	if err != nil {
		pdk.SetError(err)
		return 1
	}
	pdk.Output(out)
	return 0
}

func main() {
	if stressifier == nil {
		fmt.Println("load a dictionary through load_dictionary first")
	}
}
