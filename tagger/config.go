//go:build !wasip1 && !js

package tagger

import (
	"fmt"

	"github.com/wbrown/uk_stress/config"
)

// FromConfig builds the tagger selected by cfg.Kind.
func FromConfig(cfg config.TaggerConfig) (Tagger, error) {
	switch cfg.Kind {
	case "udpipe":
		return NewUDPipe(cfg.UDPipeURL, cfg.UDPipeModel, cfg.Timeout), nil
	case "command":
		return NewCommand(cfg.Command)
	case "prose":
		return Prose{}, nil
	case "simple":
		return Simple{}, nil
	}
	return nil, fmt.Errorf("unknown tagger kind %q", cfg.Kind)
}
