//go:build !wasip1 && !js

package tagger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/wbrown/uk_stress/types"
)

// Command runs an external tagger that reads text on stdin and writes
// CoNLL-U on stdout, such as a local UDPipe binary.
type Command struct {
	Path string
	Args []string
}

// NewCommand splits a command line on whitespace.
func NewCommand(commandLine string) (*Command, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, errors.New("empty tagger command")
	}
	return &Command{Path: fields[0], Args: fields[1:]}, nil
}

func (c *Command) Parse(ctx context.Context, text string) ([]types.Sentence,
	error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", c.Path, err,
			strings.TrimSpace(stderr.String()))
	}
	doc, err := ParseCoNLLU(&stdout, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Path, err)
	}
	return doc.Sentences, nil
}
