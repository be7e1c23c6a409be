// Package audible fetches library listings and annotation records for
// an authenticated Audible account. It is a thin boundary: credentials
// come from a file written by an external login flow, records decode
// straight into annotation.Record, and transient HTTP failures are
// retried here so the core pipeline never sees them.
package audible

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/ferrovax/go-highlights/internal/annotation"
)

// Service endpoints. The sidecar endpoint serves annotation records per
// title keyed by ASIN.
const (
	defaultAPIBaseURL = "https://api.audible.com"
	sidecarURLFormat  = "https://cde-ta-g7g.amazon.com/FionaCDEServiceEngine/sidecar?type=AUDI&key=%s"

	libraryPageSize = 999

	defaultRetryInitialInterval = 500 * time.Millisecond
	defaultRetryMaxElapsed      = 30 * time.Second
)

// Book is one library entry.
type Book struct {
	ASIN    string
	Title   string
	Authors []string
}

// AuthorList returns the authors joined for display, or a placeholder
// when the listing reports none.
func (b Book) AuthorList() string {
	if len(b.Authors) == 0 {
		return "Unknown Author"
	}
	return strings.Join(b.Authors, ", ")
}

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time interface compliance check.
var _ httpDoer = (*http.Client)(nil)

// Client talks to the Audible services on behalf of one account.
type Client struct {
	creds           Credentials
	httpc           httpDoer
	apiBaseURL      string
	sidecarURL      string
	initialInterval time.Duration
	maxElapsed      time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(d httpDoer) ClientOption {
	return func(c *Client) {
		c.httpc = d
	}
}

// WithAPIBaseURL overrides the library API base URL (for testing).
func WithAPIBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.apiBaseURL = strings.TrimRight(u, "/")
	}
}

// WithSidecarURL overrides the sidecar URL format (for testing).
// The format must contain one %s verb for the ASIN.
func WithSidecarURL(format string) ClientOption {
	return func(c *Client) {
		c.sidecarURL = format
	}
}

// WithRetryIntervals sets the first backoff interval and the total time
// cap for retrying one request.
func WithRetryIntervals(initial, maxElapsed time.Duration) ClientOption {
	return func(c *Client) {
		if initial > 0 {
			c.initialInterval = initial
		}
		if maxElapsed > 0 {
			c.maxElapsed = maxElapsed
		}
	}
}

// NewClient creates a Client for the given credentials.
func NewClient(creds Credentials, opts ...ClientOption) (*Client, error) {
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token", ErrCredentialsInvalid)
	}

	c := &Client{
		creds:           creds,
		httpc:           &http.Client{Timeout: 30 * time.Second},
		apiBaseURL:      defaultAPIBaseURL,
		sidecarURL:      sidecarURLFormat,
		initialInterval: defaultRetryInitialInterval,
		maxElapsed:      defaultRetryMaxElapsed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Library lists the account's audiobooks.
func (c *Client) Library(ctx context.Context) ([]Book, error) {
	url := fmt.Sprintf("%s/1.0/library?num_results=%d&response_groups=product_desc,product_attrs",
		c.apiBaseURL, libraryPageSize)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLibraryFetch, err)
	}

	var payload struct {
		Items []struct {
			ASIN    string `json:"asin"`
			Title   string `json:"title"`
			Authors []struct {
				Name string `json:"name"`
			} `json:"authors"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding listing: %v", ErrLibraryFetch, err)
	}

	books := make([]Book, 0, len(payload.Items))
	for _, item := range payload.Items {
		book := Book{ASIN: item.ASIN, Title: item.Title}
		for _, a := range item.Authors {
			if a.Name != "" {
				book.Authors = append(book.Authors, a.Name)
			}
		}
		books = append(books, book)
	}
	return books, nil
}

// RawRecord is one annotation record as the sidecar reports it.
type RawRecord struct {
	Type          string
	StartPosition int64
	EndPosition   int64
	HasEnd        bool
	Text          string
	Note          string
	CreationTime  string
}

// Record converts the wire record to the pipeline's annotation model.
func (r RawRecord) Record() annotation.Record {
	return annotation.Record{
		Kind:     annotation.ParseKind(r.Type),
		RawStart: r.StartPosition,
		RawEnd:   r.EndPosition,
		HasEnd:   r.HasEnd,
		Text:     r.Text,
	}
}

// Annotations fetches a title's annotation records in the service's
// stable order (kind tag descending, so notes precede clips and
// bookmarks; downstream labeling depends on that order).
func (c *Client) Annotations(ctx context.Context, asin string) ([]annotation.Record, error) {
	raw, err := c.RawAnnotations(ctx, asin)
	if err != nil {
		return nil, err
	}

	records := make([]annotation.Record, len(raw))
	for i, r := range raw {
		records[i] = r.Record()
	}
	return records, nil
}

// RawAnnotations fetches a title's annotation records without
// converting them, preserving fields the pipeline drops. Used by the
// bookmark export.
func (c *Client) RawAnnotations(ctx context.Context, asin string) ([]RawRecord, error) {
	if asin == "" {
		return nil, fmt.Errorf("%w: empty asin", ErrAnnotationFetch)
	}

	body, err := c.get(ctx, fmt.Sprintf(c.sidecarURL, asin))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAnnotationFetch, asin, err)
	}

	var payload struct {
		Payload struct {
			Records []wireRecord `json:"records"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s: decoding sidecar: %v", ErrAnnotationFetch, asin, err)
	}

	raw := make([]RawRecord, len(payload.Payload.Records))
	for i, w := range payload.Payload.Records {
		raw[i] = w.rawRecord()
	}

	// The service returns records unsorted; stable-sort by type tag
	// descending so notes come before the clips they label.
	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].Type > raw[j].Type
	})

	return raw, nil
}

// wireRecord matches the sidecar JSON. Positions arrive as quoted
// numbers on some locales, so they decode through msValue.
type wireRecord struct {
	Type          string   `json:"type"`
	StartPosition msValue  `json:"startPosition"`
	EndPosition   *msValue `json:"endPosition"`
	Text          string   `json:"text"`
	Note          string   `json:"note"`
	CreationTime  string   `json:"creationTime"`
}

func (w wireRecord) rawRecord() RawRecord {
	r := RawRecord{
		Type:          w.Type,
		StartPosition: int64(w.StartPosition),
		Text:          w.Text,
		Note:          w.Note,
		CreationTime:  w.CreationTime,
	}
	if w.EndPosition != nil {
		r.EndPosition = int64(*w.EndPosition)
		r.HasEnd = true
	}
	return r
}

// msValue is a millisecond position that decodes from either a JSON
// number or a quoted number string.
type msValue int64

func (v *msValue) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid position %s: %w", data, err)
	}
	*v = msValue(n)
	return nil
}

// get executes an authenticated GET with retries for transient
// failures. Client errors other than 429 fail immediately.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			body = data
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialInterval
	bo.MaxElapsedTime = c.maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}
