package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckview/pkg/buildinfo"
	"github.com/matzehuels/deckview/pkg/cache"
	"github.com/matzehuels/deckview/pkg/errors"
	"github.com/matzehuels/deckview/pkg/observability"
)

const (
	httpTimeout = 15 * time.Second

	// DefaultGID is the tab of the public export.
	DefaultGID = "1081179165"

	// DefaultSheetName is the tab read through the Sheets API.
	DefaultSheetName = "Data Template"

	defaultExportBase = "https://docs.google.com"
	defaultAPIBase    = "https://sheets.googleapis.com"

	// maxBodyBytes bounds every response body: sheet CSV, Sheets API JSON
	// and photos.
	maxBodyBytes = 10 << 20
)

// SheetOptions selects the spreadsheet and access mode.
type SheetOptions struct {
	SpreadsheetID string
	SheetName     string // API mode; defaults to DefaultSheetName
	GID           string // public mode; defaults to DefaultGID
	APIKey        string // API mode
	Public        bool   // use the public CSV export

	// Refresh bypasses the cache for this request.
	Refresh bool
}

func (o *SheetOptions) validateAndSetDefaults() error {
	if o.SheetName == "" {
		o.SheetName = DefaultSheetName
	}
	if o.GID == "" {
		o.GID = DefaultGID
	}
	if err := errors.ValidateSpreadsheetID(o.SpreadsheetID); err != nil {
		return err
	}
	if o.Public {
		return nil
	}
	if err := errors.ValidateSheetName(o.SheetName); err != nil {
		return err
	}
	if o.APIKey == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "an API key is required when the sheet is not public")
	}
	return nil
}

// Client fetches sheets and photos over HTTP, caching raw responses.
type Client struct {
	http   *http.Client
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger

	exportBase string
	apiBase    string

	retry func(ctx context.Context, fn func() error) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithKeyer sets the cache keyer, e.g. a scoped keyer per user.
func WithKeyer(k cache.Keyer) Option {
	return func(c *Client) { c.keyer = k }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithBaseURLs points the client at different hosts for the CSV export and
// the Sheets API. Used by tests.
func WithBaseURLs(export, api string) Option {
	return func(c *Client) {
		c.exportBase = export
		c.apiBase = api
	}
}

// WithRetry sets the number of attempts and the initial backoff delay. The
// default is [cache.RetryWithBackoff].
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.retry = func(ctx context.Context, fn func() error) error {
			return cache.Retry(ctx, attempts, delay, fn)
		}
	}
}

// NewClient creates a Client. A nil cache disables caching.
func NewClient(c cache.Cache, opts ...Option) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	cl := &Client{
		http:       &http.Client{Timeout: httpTimeout},
		cache:      c,
		keyer:      cache.NewDefaultKeyer(),
		logger:     log.Default(),
		exportBase: defaultExportBase,
		apiBase:    defaultAPIBase,
		retry:      cache.RetryWithBackoff,
	}
	for _, o := range opts {
		o(cl)
	}
	return cl
}

// Fetch loads the sheet described by opts and returns its rows as items.
func (c *Client) Fetch(ctx context.Context, opts SheetOptions) ([]Item, error) {
	if err := opts.validateAndSetDefaults(); err != nil {
		return nil, err
	}

	key := c.keyer.SheetKey(opts.SpreadsheetID, cache.SheetKeyOpts{
		SheetName: opts.SheetName,
		GID:       opts.GID,
		Public:    opts.Public,
	})

	body, err := c.cached(ctx, key, "sheet", cache.TTLSheet, opts.Refresh, func() ([]byte, error) {
		if opts.Public {
			return c.get(ctx, c.exportURL(opts))
		}
		return c.get(ctx, c.valuesURL(opts))
	})
	if err != nil {
		if code := errors.GetCode(err); opts.Public && code != "" {
			return nil, errors.Wrap(code, err, "failed to fetch data, make sure the sheet is publicly accessible")
		}
		return nil, err
	}

	var items []Item
	if opts.Public {
		items, err = ParseCSV(bytes.NewReader(body))
	} else {
		items, err = parseValues(body)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched sheet", "id", opts.SpreadsheetID, "public", opts.Public, "rows", len(items))
	return items, nil
}

// FetchPhoto downloads (or loads from cache) the raw bytes of a photo.
func (c *Client) FetchPhoto(ctx context.Context, rawURL string) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	return c.cached(ctx, c.keyer.PhotoKey(rawURL), "photo", cache.TTLPhoto, false, func() ([]byte, error) {
		return c.get(ctx, rawURL)
	})
}

func (c *Client) exportURL(o SheetOptions) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv&gid=%s",
		c.exportBase, url.PathEscape(o.SpreadsheetID), url.QueryEscape(o.GID))
}

func (c *Client) valuesURL(o SheetOptions) string {
	rng := o.SheetName + "!A:F"
	return fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?key=%s",
		c.apiBase, url.PathEscape(o.SpreadsheetID), url.PathEscape(rng), url.QueryEscape(o.APIKey))
}

// cached returns the entry for key or runs fetch with retries and stores
// the result.
func (c *Client) cached(ctx context.Context, key, keyType string, ttl time.Duration, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	if !refresh {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyType)
			return data, nil
		} else if err != nil {
			c.logger.Warn("cache read failed", "type", keyType, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
	}

	var data []byte
	err := c.retry(ctx, func() error {
		var err error
		data, err = fetch()
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn("cache write failed", "type", keyType, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	host, path := req.URL.Host, req.URL.Path

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("%w: %w", cache.ErrNetwork, err), "GET %s", host))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("%w: %w", cache.ErrNetwork, err), "read body from %s", host))
	}
	if len(data) > maxBodyBytes {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "response from %s exceeds %d bytes", host, maxBodyBytes)
	}
	return data, nil
}

// checkStatus maps a non-200 response to a coded error. 404 wraps
// cache.ErrNotFound; 5xx and other failures wrap cache.ErrNetwork.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.Wrap(errors.ErrCodeNotFound, cache.ErrNotFound, "spreadsheet or resource not found")
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "access denied (status %d)", code)
	case code == http.StatusTooManyRequests:
		retry, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return cache.Retryable(errors.Wrap(errors.ErrCodeRateLimited, &errors.RateLimitedError{RetryAfter: retry}, "rate limited"))
	case code >= 500:
		return cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, cache.ErrNetwork, "status %d", code))
	default:
		return errors.Wrap(errors.ErrCodeNetwork, cache.ErrNetwork, "status %d", code)
	}
}

type valuesResponse struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

func parseValues(body []byte) ([]Item, error) {
	var vr valuesResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode Sheets API response")
	}
	return FromValues(vr.Values)
}
