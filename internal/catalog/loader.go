package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
	"github.com/soulart2024-ship-it/Tem/internal/platform/requestctx"
)

// HTTPClient issues the dataset fetch.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Loader fetches and parses domain datasets. Failures are logged and yield
// an empty catalog; downstream rendering treats an empty catalog as nothing
// to render, never as an error state.
type Loader struct {
	base   *url.URL
	client HTTPClient
}

// NewLoader constructs a Loader resolving dataset paths against baseURL.
func NewLoader(baseURL string, client HTTPClient) (*Loader, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("catalog loader: base url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("catalog loader: parse base url: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{base: parsed, client: client}, nil
}

// Load fetches the dataset for the domain and parses it into catalog items.
func (l *Loader) Load(ctx context.Context, d domain.Domain) []domain.CatalogItem {
	logger := requestctx.Logger(ctx).With(zap.String("domain", string(d)))

	desc, ok := ForDomain(d)
	if !ok {
		logger.Warn("catalog load skipped: unknown domain")
		return nil
	}

	ref, err := url.Parse(desc.DatasetPath)
	if err != nil {
		logger.Error("catalog dataset path invalid", zap.Error(err))
		return nil
	}
	target := l.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		logger.Error("catalog request build failed", zap.Error(err))
		return nil
	}

	resp, err := l.client.Do(req)
	if err != nil {
		logger.Error("catalog fetch failed", zap.Error(err))
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		logger.Error("catalog fetch returned non-200", zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("catalog body read failed", zap.Error(err))
		return nil
	}

	items, dropped := Parse(desc, string(body))
	logger.Info("catalog loaded",
		zap.Int("items", len(items)),
		zap.Int("dropped_rows", dropped),
	)
	return items
}

// Parse turns delimited dataset text into catalog items. The first line is a
// header and is discarded. Rows with fewer than the descriptor's minimum
// column count are dropped individually; they never abort the whole parse.
// Returns the parsed items and the number of dropped rows.
func Parse(desc Descriptor, text string) ([]domain.CatalogItem, int) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil, 0
	}

	var items []domain.CatalogItem
	dropped := 0
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, ",")
		if len(values) < desc.MinColumns {
			dropped++
			continue
		}

		item := domain.CatalogItem{
			Bucket:     strings.TrimSpace(values[0]),
			Label:      strings.TrimSpace(values[1]),
			Attributes: make(map[string]string, len(desc.Attributes)),
		}
		for _, col := range desc.Attributes {
			value := strings.TrimSpace(values[col.Index])
			item.Attributes[col.Name] = value
			if col.Numeric {
				parsed := parseLeadingInt(value)
				item.Frequency = parsed
				item.Attributes[col.Name] = strconv.Itoa(parsed)
			}
		}
		items = append(items, item)
	}
	return items, dropped
}

// parseLeadingInt reads the leading integer of a field, so "396 Hz" parses
// as 396. Fields without a leading integer yield 0.
func parseLeadingInt(value string) int {
	value = strings.TrimSpace(value)
	start := 0
	if start < len(value) && (value[start] == '-' || value[start] == '+') {
		start++
	}
	end := start
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	parsed, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return parsed
}
