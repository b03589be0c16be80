package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const (
	duckDuckGoEndpoint = "https://api.duckduckgo.com/"
	maxFetchBody       = 5 * 1024 * 1024
)

// WebConfig tunes the network tools. Zero values fall back to defaults;
// SearchEndpoint is overridable for tests.
type WebConfig struct {
	Client         *http.Client
	SearchEndpoint string
	UserAgent      string
}

func (c WebConfig) withDefaults() WebConfig {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	if c.SearchEndpoint == "" {
		c.SearchEndpoint = duckDuckGoEndpoint
	}
	if c.UserAgent == "" {
		c.UserAgent = "traydesk-agents/1.0"
	}
	return c
}

// instantAnswer mirrors the subset of the DuckDuckGo Instant Answer
// response the search tool consumes.
type instantAnswer struct {
	Heading       string `json:"Heading"`
	Abstract      string `json:"Abstract"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// WebSearch creates the web_search tool backed by the DuckDuckGo Instant
// Answer API.
func WebSearch(cfg WebConfig) Tool {
	cfg = cfg.withDefaults()
	schema := ObjectSchema(map[string]*PropertySchema{
		"query":       StringProperty("Search query"),
		"num_results": NumberProperty("Maximum number of results (default 5)"),
	}, []string{"query"})

	return NewTool(
		"web_search",
		"Search the web via the DuckDuckGo Instant Answer API",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			query := stringParam(params, "query", "")
			limit := intParam(params, "num_results", 5)
			if limit <= 0 {
				limit = 5
			}

			endpoint := fmt.Sprintf("%s?q=%s&format=json&no_html=1",
				cfg.SearchEndpoint, url.QueryEscape(query))
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("User-Agent", cfg.UserAgent)

			resp, err := cfg.Client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("search request failed: %w", err)
			}
			defer resp.Body.Close()

			var answer instantAnswer
			if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
				return nil, fmt.Errorf("decode search response: %w", err)
			}

			type searchResult struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
				URL     string `json:"url"`
			}
			var results []searchResult
			if answer.Abstract != "" {
				results = append(results, searchResult{
					Title:   answer.Heading,
					Snippet: answer.Abstract,
					URL:     answer.AbstractURL,
				})
			}
			for _, topic := range answer.RelatedTopics {
				if len(results) >= limit {
					break
				}
				if topic.Text == "" {
					continue
				}
				title := topic.Text
				if len(title) > 100 {
					title = title[:100]
				}
				results = append(results, searchResult{
					Title:   title,
					Snippet: topic.Text,
					URL:     topic.FirstURL,
				})
			}

			return map[string]any{
				"query":   query,
				"results": results,
				"count":   len(results),
			}, nil
		},
	)
}

// FetchURL creates the fetch_url tool. HTML is converted to markdown or
// reduced to visible text; other content types pass through raw.
func FetchURL(cfg WebConfig) Tool {
	cfg = cfg.withDefaults()
	converter := md.NewConverter("", true, nil)

	schema := ObjectSchema(map[string]*PropertySchema{
		"url":    StringProperty("URL to fetch, http or https"),
		"format": EnumProperty("Output format for HTML pages", []string{"markdown", "text", "raw"}),
	}, []string{"url"})

	return NewTool(
		"fetch_url",
		"Fetch content from a URL, converting HTML to markdown or plain text",
		schema,
		func(ctx context.Context, params map[string]any) (any, error) {
			target := stringParam(params, "url", "")
			format := stringParam(params, "format", "markdown")
			if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
				return nil, fmt.Errorf("url must start with http:// or https://")
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("User-Agent", cfg.UserAgent)

			resp, err := cfg.Client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("fetch failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("fetch failed: HTTP %d", resp.StatusCode)
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
			if err != nil {
				return nil, err
			}

			contentType := resp.Header.Get("Content-Type")
			content := string(body)
			if strings.Contains(contentType, "text/html") && format != "raw" {
				content, err = renderHTML(content, format, converter)
				if err != nil {
					return nil, err
				}
			}

			return map[string]any{
				"url":          target,
				"content":      content,
				"status_code":  resp.StatusCode,
				"content_type": contentType,
			}, nil
		},
	)
}

func renderHTML(html, format string, converter *md.Converter) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	if format == "text" {
		text := doc.Find("body").Text()
		return collapseWhitespace(text), nil
	}

	selection := doc.Find("body")
	markdown := converter.Convert(selection)
	return strings.TrimSpace(markdown), nil
}

func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
