//go:build !wasip1 && !js

package uk_stress

import (
	"fmt"

	"github.com/wbrown/uk_stress/config"
	"github.com/wbrown/uk_stress/dictionary"
	"github.com/wbrown/uk_stress/tagger"
)

// NewStressifierFromConfig loads the configured dictionary and tagger. The
// returned Stressifier owns the dictionary; Close releases it.
func NewStressifierFromConfig(cfg *config.Config, opts ...Option) (
	*Stressifier, error) {
	policy, err := ParsePolicy(cfg.Stress.OnAmbiguity)
	if err != nil {
		return nil, err
	}
	tg, err := tagger.FromConfig(cfg.Tagger)
	if err != nil {
		return nil, err
	}
	dict, err := dictionary.Load(cfg.Dictionary.Location(),
		cfg.Dictionary.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("loading dictionary: %w", err)
	}
	configured := []Option{
		WithStressSymbol(cfg.Stress.Symbol),
		WithPolicy(policy),
		WithPenaltyTolerance(cfg.Stress.PenaltyTolerance),
		WithCacheSize(cfg.Dictionary.CacheSize),
	}
	stressifier, err := NewStressifier(dict, tg,
		append(configured, opts...)...)
	if err != nil {
		dict.Close()
		return nil, err
	}
	stressifier.closer = dict
	return stressifier, nil
}
