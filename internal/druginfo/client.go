// Package druginfo looks up label information for a medicine from openFDA.
package druginfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/medreminder/internal/observability/metrics"
	"github.com/wolfman30/medreminder/pkg/logging"
)

// NotAvailable is shown for any field the label does not provide.
const NotAvailable = "Not available"

// DefaultBaseURL is the openFDA drug label endpoint.
const DefaultBaseURL = "https://api.fda.gov/drug/label.json"

// Lookup results recorded in metrics.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultError    = "error"
	ResultCached   = "cached"
)

// Info is the label summary for one medicine.
type Info struct {
	Name               string `json:"name"`
	Uses               string `json:"uses"`
	SideEffects        string `json:"sideEffects"`
	DosageInstructions string `json:"dosageInstructions"`
	Available          bool   `json:"available"`
}

// Cache stores lookups by normalized medicine name.
type Cache interface {
	Get(ctx context.Context, name string) (Info, bool, error)
	Set(ctx context.Context, name string, info Info) error
}

type labelResponse struct {
	Results []struct {
		IndicationsAndUsage     []string `json:"indications_and_usage"`
		AdverseReactions        []string `json:"adverse_reactions"`
		DosageAndAdministration []string `json:"dosage_and_administration"`
	} `json:"results"`
}

// Client queries openFDA. Lookup never fails: every problem degrades to
// NotAvailable fields.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	metrics    *metrics.ReminderMetrics
	tracer     trace.Tracer
	logger     *logging.Logger
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tracer:     otel.Tracer("medreminder.internal.druginfo"),
		logger:     logger,
	}
}

// WithCache puts a cache in front of openFDA.
func (c *Client) WithCache(cache Cache) *Client {
	c.cache = cache
	return c
}

// WithMetrics attaches counters.
func (c *Client) WithMetrics(m *metrics.ReminderMetrics) *Client {
	c.metrics = m
	return c
}

// Lookup returns label information for name.
func (c *Client) Lookup(ctx context.Context, name string) Info {
	name = strings.TrimSpace(name)
	empty := unavailable(name)
	if name == "" {
		return empty
	}

	ctx, span := c.tracer.Start(ctx, "druginfo.lookup")
	defer span.End()
	span.SetAttributes(attribute.String("medreminder.medicine", name))

	key := strings.ToLower(name)
	if c.cache != nil {
		if info, ok, err := c.cache.Get(ctx, key); err != nil {
			c.logger.Warn("druginfo: cache read failed", "medicine", name, "error", err)
		} else if ok {
			c.metrics.ObserveDrugLookup(ResultCached)
			return info
		}
	}

	info, err := c.fetch(ctx, name)
	if err != nil {
		span.RecordError(err)
		c.logger.Warn("druginfo: lookup failed", "medicine", name, "error", err)
		c.metrics.ObserveDrugLookup(ResultError)
		return empty
	}
	if info.Available {
		c.metrics.ObserveDrugLookup(ResultFound)
	} else {
		c.metrics.ObserveDrugLookup(ResultNotFound)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, info); err != nil {
			c.logger.Warn("druginfo: cache write failed", "medicine", name, "error", err)
		}
	}
	return info
}

func (c *Client) fetch(ctx context.Context, name string) (Info, error) {
	q := url.Values{}
	q.Set("search", "indications_and_usage:"+name)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Info{}, fmt.Errorf("druginfo: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("druginfo: request: %w", err)
	}
	defer resp.Body.Close()

	// openFDA answers 404 when the search matches nothing.
	if resp.StatusCode == http.StatusNotFound {
		return unavailable(name), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Info{}, fmt.Errorf("druginfo: unexpected status %d", resp.StatusCode)
	}

	var parsed labelResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&parsed); err != nil {
		return Info{}, fmt.Errorf("druginfo: decode: %w", err)
	}
	if len(parsed.Results) == 0 {
		return unavailable(name), nil
	}
	r := parsed.Results[0]
	return Info{
		Name:               name,
		Uses:               first(r.IndicationsAndUsage),
		SideEffects:        first(r.AdverseReactions),
		DosageInstructions: first(r.DosageAndAdministration),
		Available:          true,
	}, nil
}

func unavailable(name string) Info {
	return Info{
		Name:               name,
		Uses:               NotAvailable,
		SideEffects:        NotAvailable,
		DosageInstructions: NotAvailable,
	}
}

func first(values []string) string {
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return NotAvailable
	}
	return values[0]
}
