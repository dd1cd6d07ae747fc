package ticker

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"
)

type Fetcher struct {
	httpClient    *http.Client
	endpoint      string
	userAgent     string
	defaultAPIKey string
}

// NewFetcher returns a provider client. defaultAPIKey is sent when a widget
// has no apikey attribute of its own.
func NewFetcher(httpClient *http.Client, endpoint, userAgent, defaultAPIKey string) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Fetcher{
		httpClient:    httpClient,
		endpoint:      endpoint,
		userAgent:     userAgent,
		defaultAPIKey: defaultAPIKey,
	}
}

type providerResponse struct {
	Status  any             `json:"status"`
	Message any             `json:"message"`
	Items   json.RawMessage `json:"items"`
}

type providerItem struct {
	Title       json.RawMessage `json:"title"`
	Link        json.RawMessage `json:"link"`
	URL         json.RawMessage `json:"url"`
	Description json.RawMessage `json:"description"`
}

// Run performs at most one provider round trip. An empty feed source
// yields no items and no request.
func (f *Fetcher) Run(ctx context.Context, opts Options) ([]Item, error) {
	if opts.RSS == "" {
		return []Item{}, nil
	}

	log := opts.Logger("rss-ticker")

	requestURL := f.BuildURL(opts)
	log.Info("Fetching feed via rss2json", "url", requestURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Info("Provider request failed", "error", err)
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Info("Provider returned error status", "status", resp.StatusCode)
		return nil, &FetchError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	items, err := f.decode(body, opts.EffectiveMaxItems())
	if err != nil {
		log.Info("Provider response rejected", "error", err)
		return nil, err
	}

	log.Info("Items loaded", "count", len(items), "rss", opts.RSS)
	return items, nil
}

// BuildURL embeds the feed source, the api key and the raw extra params.
// Params are appended verbatim.
func (f *Fetcher) BuildURL(opts Options) string {
	var b strings.Builder
	b.WriteString(f.endpoint)
	if strings.Contains(f.endpoint, "?") {
		b.WriteString("&")
	} else {
		b.WriteString("?")
	}
	b.WriteString("rss_url=")
	b.WriteString(url.QueryEscape(opts.RSS))

	if apiKey := lo.Ternary(opts.APIKey != "", opts.APIKey, f.defaultAPIKey); apiKey != "" {
		b.WriteString("&api_key=")
		b.WriteString(url.QueryEscape(apiKey))
	}
	if opts.Params != "" {
		b.WriteString("&")
		b.WriteString(opts.Params)
	}
	return b.String()
}

func (f *Fetcher) decode(body []byte, maxItems int) ([]Item, error) {
	var envelope providerResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ProviderError{Message: "rss2json: malformed response", Err: err}
	}

	if status, _ := envelope.Status.(string); status != "ok" {
		message, _ := envelope.Message.(string)
		if message == "" {
			message = "rss2json error"
		}
		return nil, &ProviderError{Message: message}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(envelope.Items, &raw); err != nil {
		raw = nil
	}

	entries := lo.FilterMap(raw, func(r json.RawMessage, _ int) (providerItem, bool) {
		var entry providerItem
		if string(r) == "null" {
			return entry, false
		}
		if err := json.Unmarshal(r, &entry); err != nil {
			return entry, false
		}
		return entry, true
	})

	entries = entries[:min(maxItems, len(entries))]

	return lo.Map(entries, func(entry providerItem, _ int) Item {
		return Item{
			Title:       jsonText(entry.Title),
			Link:        cmp.Or(jsonText(entry.Link), jsonText(entry.URL)),
			Description: jsonText(entry.Description),
		}
	}), nil
}

// jsonText renders a JSON value as text: strings verbatim, null as empty,
// anything else in its literal form.
func jsonText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if text := strings.TrimSpace(string(raw)); text != "null" {
		return text
	}
	return ""
}
