//go:build !wasip1 && !js

package tagger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/wbrown/uk_stress/types"
)

// UDPipe tags text with a UDPipe REST service, asking for token ranges so
// offsets map straight back to the input.
type UDPipe struct {
	BaseURL string
	Model   string
	client  *http.Client
}

type udpipeResponse struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

func NewUDPipe(baseURL, model string, timeout time.Duration) *UDPipe {
	return &UDPipe{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (u *UDPipe) Parse(ctx context.Context, text string) ([]types.Sentence,
	error) {
	form := url.Values{}
	form.Set("tokenizer", "ranges")
	form.Set("tagger", "")
	form.Set("data", text)
	if u.Model != "" {
		form.Set("model", u.Model)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", u.BaseURL+"/process",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("udpipe: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("udpipe: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("udpipe: HTTP status code %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var parsed udpipeResponse
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("udpipe: failed to decode response: %w", err)
	}
	if parsed.Result == "" && text != "" {
		return nil, errors.New("udpipe: empty result")
	}
	log.Debug().Msgf("udpipe model %s parsed %d bytes", parsed.Model,
		len(text))
	doc, err := ParseCoNLLU(strings.NewReader(parsed.Result), text)
	if err != nil {
		return nil, fmt.Errorf("udpipe: %w", err)
	}
	return doc.Sentences, nil
}
