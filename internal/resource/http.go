package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"

	"github.com/Iron-Ham/backoffice/internal/errors"
	"github.com/Iron-Ham/backoffice/internal/logging"
	"github.com/Iron-Ham/backoffice/internal/record"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// HTTPConfig configures the shared API transport.
type HTTPConfig struct {
	BaseURL      string
	Token        string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// API is the transport shared by every resource client: one retrying HTTP
// client, one credential and one singleflight group for detail fetches.
type API struct {
	base   *url.URL
	token  string
	http   *retryablehttp.Client
	group  singleflight.Group
	logger *logging.Logger
}

// NewAPI creates the shared transport. Reads (list, get) are retried on
// network errors and 5xx responses; mutations are sent exactly once.
func NewAPI(cfg HTTPConfig, logger *logging.Logger) (*API, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q: scheme must be http or https", cfg.BaseURL)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	// Hand the final response back so its status can be classified.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = logger.WithComponent("http")
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}

	return &API{
		base:   base,
		token:  cfg.Token,
		http:   rc,
		logger: logger,
	}, nil
}

// Resource returns the client for the collection mounted at path.
func (a *API) Resource(name, path string) *HTTPClient {
	return &HTTPClient{
		api:    a,
		name:   name,
		path:   strings.Trim(path, "/"),
		logger: a.logger.WithScreen(name),
	}
}

// HTTPClient implements Client for one REST collection:
//
//	GET    {base}/{path}?page=&limit=&q=
//	GET    {base}/{path}/{id}
//	POST   {base}/{path}
//	PUT    {base}/{path}/{id}
//	DELETE {base}/{path}/{id}
type HTTPClient struct {
	api    *API
	name   string
	path   string
	logger *logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) endpoint(id string, q url.Values) string {
	u := c.api.base.JoinPath(c.path)
	if id != "" {
		u = u.JoinPath(url.PathEscape(id))
	}
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *HTTPClient) authorize(h http.Header) {
	h.Set("Accept", "application/json")
	if c.api.token != "" {
		h.Set("Authorization", "Bearer "+c.api.token)
	}
}

// read performs a retried GET and returns the body of a 2xx response.
func (c *HTTPClient) read(ctx context.Context, op, id, target string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	c.authorize(req.Header)

	resp, err := c.api.http.Do(req)
	if err != nil {
		return nil, errors.NewFetchError(op, err).WithResource(c.name)
	}
	return c.consume(op, id, resp)
}

// send performs a single unretried mutation request.
func (c *HTTPClient) send(ctx context.Context, op, method, id string, payload record.Raw) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(id, nil), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	c.authorize(req.Header)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.api.http.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.NewFetchError(op, err).WithResource(c.name)
	}
	return c.consume(op, id, resp)
}

func (c *HTTPClient) consume(op, id string, resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewFetchError(op, err).WithResource(c.name).WithStatus(resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("api request failed",
			"op", op,
			"status", resp.StatusCode,
			"id", id)
		return nil, classify(op, c.name, id, resp.StatusCode, body)
	}
	return body, nil
}

// List fetches one page.
func (c *HTTPClient) List(ctx context.Context, p ListParams) (ListResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Query != "" {
		q.Set("q", p.Query)
	}

	body, err := c.read(ctx, "list", "", c.endpoint("", q))
	if err != nil {
		return ListResult{}, err
	}
	res, dropped, err := decodeList(body, p)
	if err != nil {
		return ListResult{}, errors.NewFetchError("list", err).WithResource(c.name)
	}
	if dropped > 0 {
		c.logger.Warn("list response contained non-object entries", "dropped", dropped)
	}
	return res, nil
}

// Get fetches one record. Concurrent calls for the same id share a request;
// each caller receives its own copy of the result.
func (c *HTTPClient) Get(ctx context.Context, id string) (record.Raw, error) {
	key := c.path + "/" + id
	v, err, shared := c.api.group.Do(key, func() (any, error) {
		body, err := c.read(ctx, "get", id, c.endpoint(id, nil))
		if err != nil {
			return nil, err
		}
		raw, err := decodeOne(body)
		if err != nil {
			return nil, errors.NewFetchError("get", err).WithResource(c.name)
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("coalesced detail fetch", "id", id)
	}
	return maps.Clone(v.(record.Raw)), nil
}

// Create posts a new record and returns the server's version of it.
func (c *HTTPClient) Create(ctx context.Context, payload record.Raw) (record.Raw, error) {
	body, err := c.send(ctx, "create", http.MethodPost, "", payload)
	if err != nil {
		return nil, err
	}
	return c.decodeMutation("create", body)
}

// Update replaces the editable fields of record id.
func (c *HTTPClient) Update(ctx context.Context, id string, payload record.Raw) (record.Raw, error) {
	body, err := c.send(ctx, "update", http.MethodPut, id, payload)
	if err != nil {
		return nil, err
	}
	return c.decodeMutation("update", body)
}

// Delete removes record id.
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	_, err := c.send(ctx, "delete", http.MethodDelete, id, nil)
	return err
}

func (c *HTTPClient) decodeMutation(op string, body []byte) (record.Raw, error) {
	raw, err := decodeOne(body)
	if err != nil {
		return nil, errors.NewFetchError(op, err).WithResource(c.name)
	}
	return raw, nil
}
