package seotext

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopseo/internal/domain/seo"
	"shopseo/internal/metrics"

	"github.com/rs/zerolog"
)

// All four settings are required; the constructor fails fast so a
// misconfigured deployment never reaches the network.
var (
	ErrMissingEndpoint   = errors.New("seotext: azure endpoint is required")
	ErrMissingAPIKey     = errors.New("seotext: azure api key is required")
	ErrMissingAPIVersion = errors.New("seotext: azure api version is required")
	ErrMissingDeployment = errors.New("seotext: azure deployment name is required")
)

const azureDefaultTimeout = 60 * time.Second

const systemInstruction = "You are an expert e-commerce SEO assistant. Always respond with valid JSON only."

// AzureOptions configures the Azure OpenAI chat-completions client.
type AzureOptions struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Azure calls an Azure OpenAI chat-completions deployment to generate alt
// text and SEO metadata suggestions.
type Azure struct {
	endpoint   string
	apiKey     string
	apiVersion string
	deployment string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewAzure(opts AzureOptions) (*Azure, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(opts.APIVersion) == "" {
		return nil, ErrMissingAPIVersion
	}
	if strings.TrimSpace(opts.Deployment) == "" {
		return nil, ErrMissingDeployment
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: azureDefaultTimeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Azure{
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(opts.APIKey),
		apiVersion: strings.TrimSpace(opts.APIVersion),
		deployment: strings.TrimSpace(opts.Deployment),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role string `json:"role"`
	// Content is a plain string for text-only messages or a []contentPart
	// when an image reference rides along.
	Content any `json:"content"`
}

type contentPart struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	ImageURL *imageURLValue `json:"image_url,omitempty"`
}

type imageURLValue struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AltText asks the deployment for alt text for one product image. The image
// itself is attached as a low-detail reference when a URL is available.
func (a *Azure) AltText(ctx context.Context, u seo.ImageUnit) seo.Outcome {
	prompt := buildAltTextPrompt(u)
	parts := []contentPart{{Type: "text", Text: prompt}}
	if u.ImageURL != "" {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURLValue{URL: u.ImageURL, Detail: "low"},
		})
	}
	raw, err := a.complete(ctx, chatRequest{
		Temperature: 0.3,
		MaxTokens:   100,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: parts},
		},
	})
	if err != nil {
		return generationOutcome(seo.RemoteFailure(fmt.Sprintf("failed to generate alt text: %v", err)))
	}

	parsed, perr := parseModelPayload[altTextPayload](raw)
	if perr != nil {
		a.logger.Warn().Err(perr).Msg("alt text response was not valid JSON")
		return generationOutcome(seo.Success(seo.GeneratedText{
			AltText:  seo.SentinelInvalidJSON,
			Raw:      raw,
			Sentinel: true,
		}))
	}
	if strings.TrimSpace(parsed.AltText) == "" {
		return generationOutcome(seo.Success(seo.GeneratedText{
			AltText:  seo.SentinelAltTextUnavailable,
			Raw:      raw,
			Sentinel: true,
		}))
	}
	return generationOutcome(seo.Success(seo.GeneratedText{
		AltText: seo.ClampAltText(strings.TrimSpace(parsed.AltText)),
	}))
}

// Metadata asks the deployment for a meta title and description for one
// product.
func (a *Azure) Metadata(ctx context.Context, u seo.ProductUnit) seo.Outcome {
	raw, err := a.complete(ctx, chatRequest{
		Temperature: 0.5,
		MaxTokens:   150,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: buildMetadataPrompt(u)},
		},
	})
	if err != nil {
		return generationOutcome(seo.RemoteFailure(fmt.Sprintf("failed to generate metadata: %v", err)))
	}

	parsed, perr := parseModelPayload[metadataPayload](raw)
	if perr != nil {
		a.logger.Warn().Err(perr).Msg("metadata response was not valid JSON")
		return generationOutcome(seo.Success(seo.GeneratedText{
			MetaTitle:       seo.SentinelTitleUnavailable,
			MetaDescription: seo.SentinelDescUnavailable,
			Raw:             raw,
			Sentinel:        true,
		}))
	}
	text := seo.GeneratedText{
		MetaTitle:       seo.ClampMetaTitle(strings.TrimSpace(parsed.MetaTitle)),
		MetaDescription: seo.ClampMetaDescription(strings.TrimSpace(parsed.MetaDescription)),
	}
	if text.MetaTitle == "" {
		text.MetaTitle = seo.SentinelTitleUnavailable
		text.Sentinel = true
	}
	if text.MetaDescription == "" {
		text.MetaDescription = seo.SentinelDescUnavailable
		text.Sentinel = true
	}
	if text.Sentinel {
		text.Raw = raw
	}
	return generationOutcome(seo.Success(text))
}

func (a *Azure) complete(ctx context.Context, payload chatRequest) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		a.endpoint, url.PathEscape(a.deployment), url.QueryEscape(a.apiVersion))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("azure openai status %d", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func generationOutcome(o seo.Outcome) seo.Outcome {
	metrics.Generations.WithLabelValues(string(o.Kind)).Inc()
	return o
}

var _ Generator = (*Azure)(nil)
