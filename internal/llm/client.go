// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package llm is the concrete ConceptExtractor/Summarizer implementation
// internal/app wires into internal/ingest.Pipeline: a thin client that
// sends one chat-completion request per provider (Anthropic, OpenAI,
// Ollama) and parses the reply. Retries, timeouts, circuit breaking, and
// bulkheading are deliberately not done here; the pipeline wraps every
// call through resilience.ProfileLLM, so this client issues one HTTP
// request per call and nothing more (see internal/ingest.ConceptExtractor's
// doc comment).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kadirpekel/retrieval-core/internal/config"
	"github.com/kadirpekel/retrieval-core/internal/ingest"
	"github.com/kadirpekel/retrieval-core/pkg/httpclient"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com/v1"
	openAIDefaultBaseURL    = "https://api.openai.com/v1"
	ollamaDefaultBaseURL    = "http://localhost:11434"

	anthropicVersion = "2023-06-01"
	requestTimeout    = 60 * time.Second
	maxResponseTokens = 1024
)

// Client calls a single configured LLM provider to extract concepts and
// categories from chunk text, and to summarize a document.
type Client struct {
	cfg     config.LLMConfig
	http    *httpclient.Client
	baseURL string
}

// New builds a Client from a validated LLMConfig. Retries are pinned to
// 0: resilience.ProfileLLM already retries at the pipeline layer, and
// retrying twice would double backoff delays.
func New(cfg config.LLMConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		switch cfg.Provider {
		case config.LLMProviderOpenAI:
			baseURL = openAIDefaultBaseURL
		case config.LLMProviderOllama:
			baseURL = ollamaDefaultBaseURL
		default:
			baseURL = anthropicDefaultBaseURL
		}
	}
	return &Client{
		cfg: cfg,
		http: httpclient.New(
			httpclient.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
			httpclient.WithMaxRetries(0),
		),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Extract satisfies internal/ingest.ConceptExtractor.
func (c *Client) Extract(ctx context.Context, text string) (ingest.ExtractResult, error) {
	prompt := extractPrompt(text)
	reply, err := c.complete(ctx, extractSystemPrompt, prompt)
	if err != nil {
		return ingest.ExtractResult{}, err
	}
	return parseExtractReply(reply)
}

// Summarize satisfies internal/ingest.Summarizer.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	reply, err := c.complete(ctx, summarizeSystemPrompt, text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// complete dispatches to the configured provider's wire format and
// returns the model's raw text reply.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	switch c.cfg.Provider {
	case config.LLMProviderOpenAI:
		return c.completeOpenAI(ctx, system, user)
	case config.LLMProviderOllama:
		return c.completeOllama(ctx, system, user)
	default:
		return c.completeAnthropic(ctx, system, user)
	}
}

func (c *Client) do(ctx context.Context, path string, body any, headers map[string]string) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm: request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("llm: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &httpclient.RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return respBody, nil
}
