package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// GID namespaces for the resources this app mutates. A mutation call is
// rejected locally when the identifier is outside the expected namespace.
const (
	ProductGIDPrefix    = "gid://shopify/Product/"
	MediaImageGIDPrefix = "gid://shopify/MediaImage/"
)

var (
	ErrMissingShop  = errors.New("shopify: shop domain is required")
	ErrMissingToken = errors.New("shopify: admin token is required")
)

const (
	defaultAPIVersion = "2024-10"
	defaultTimeout    = 30 * time.Second
)

// Options configures the Admin GraphQL client.
type Options struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
	HTTPClient  *http.Client
	Logger      *zerolog.Logger
}

// Client performs GraphQL calls against the Shopify Admin API for one shop.
type Client struct {
	shop       string
	token      string
	version    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(opts Options) (*Client, error) {
	shop := strings.TrimSpace(opts.ShopDomain)
	if shop == "" {
		return nil, ErrMissingShop
	}
	token := strings.TrimSpace(opts.AccessToken)
	if token == "" {
		return nil, ErrMissingToken
	}
	version := strings.TrimSpace(opts.APIVersion)
	if version == "" {
		version = defaultAPIVersion
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		shop:       shop,
		token:      token,
		version:    version,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do posts one GraphQL document and decodes the data payload into out.
// Top-level GraphQL errors and non-2xx statuses are transport-level failures;
// per-entity userErrors are decoded by the caller.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.shop, c.version)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, snippet(raw))
	}

	var envelope gqlEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(messages, ", "))
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return errors.New("response carried no data")
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

const maxSnippet = 200

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxSnippet {
		return s[:maxSnippet] + "..."
	}
	return s
}
