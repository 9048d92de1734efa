package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"github.com/datsun80zx/repairtrack/internal/config"
	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/parser"
)

// Apps Script actions
const (
	ActionGetAllJobs = "getAllJobs"
	ActionExportCSV  = "exportCSV"
	ActionAddJob     = "addJob"
	ActionUpdateJob  = "updateJob"
	ActionDeleteJob  = "deleteJob"
)

const (
	defaultBackoff = 500 * time.Millisecond
	jobsKey        = "jobs"
)

// Options configures a Client
type Options struct {
	URL      string
	Timeout  time.Duration
	Retries  uint64
	Backoff  time.Duration
	CacheTTL time.Duration

	Logger     logrus.FieldLogger
	Registerer prometheus.Registerer
}

// Client talks to the shop's Apps Script web app. It implements jobs.Store.
// Reads are cached for CacheTTL; when the endpoint fails, the last good job
// list is served instead.
type Client struct {
	http    *resty.Client
	retries uint64
	backoff time.Duration
	cache   *expirable.LRU[string, []jobs.Job]
	log     logrus.FieldLogger
	metrics *Metrics

	mu       sync.Mutex
	lastGood []jobs.Job
}

// New creates a client for the endpoint in opts.URL
func New(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, errors.New("apps script url is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 12 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	c := &Client{
		http: resty.New().
			SetBaseURL(opts.URL).
			SetTimeout(opts.Timeout).
			SetHeader("Accept", "application/json").
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)),
		retries: opts.Retries,
		backoff: opts.Backoff,
		log:     opts.Logger.WithField("module", "sheets"),
		metrics: NewMetrics(opts.Registerer),
	}
	if opts.CacheTTL > 0 {
		c.cache = expirable.NewLRU[string, []jobs.Job](8, nil, opts.CacheTTL)
	}
	return c, nil
}

// ListJobs returns every job in the sheet with normalized dates
func (c *Client) ListJobs(ctx context.Context) ([]jobs.Job, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(jobsKey); ok {
			c.metrics.cacheHits.Inc()
			return clone(cached), nil
		}
		c.metrics.cacheMisses.Inc()
	}

	list, err := c.fetchJobs(ctx)
	if err != nil {
		c.mu.Lock()
		last := c.lastGood
		c.mu.Unlock()
		if last != nil {
			c.metrics.fallbacks.WithLabelValues("last-good").Inc()
			c.log.WithError(err).Warn("serving last good job list")
			return clone(last), nil
		}
		config.LogError(c.log, "sheets", "ListJobs", "fetching jobs", nil, err)
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(jobsKey, list)
	}
	c.mu.Lock()
	c.lastGood = list
	c.mu.Unlock()

	return clone(list), nil
}

func (c *Client) fetchJobs(ctx context.Context) ([]jobs.Job, error) {
	resp, err := c.get(ctx, ActionGetAllJobs)
	if err != nil {
		return nil, err
	}
	records, err := decodeRecords(ActionGetAllJobs, resp.Body())
	if err != nil {
		return nil, err
	}

	// The script has been seen to stamp every row with the same date; the
	// CSV export carries the real ones.
	if sameDate(records) {
		list, csvErr := c.jobsFromCSV(ctx)
		if csvErr == nil {
			c.metrics.fallbacks.WithLabelValues("csv").Inc()
			return list, nil
		}
		c.log.WithError(csvErr).Warn("csv fallback failed, keeping getAllJobs result")
	}

	return parser.JobsFromRecords(records), nil
}

func (c *Client) jobsFromCSV(ctx context.Context) ([]jobs.Job, error) {
	text, err := c.ExportCSV(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := parser.NewCSVParser().ParseJobs(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return parser.Jobs(rows), nil
}

// ExportCSV returns the sheet as CSV text
func (c *Client) ExportCSV(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, ActionExportCSV)
	if err != nil {
		return "", err
	}
	return decodeCSV(resp.Body())
}

func (c *Client) AddJob(ctx context.Context, job jobs.Job) error {
	return c.write(ctx, ActionAddJob, "", toRecord(job))
}

func (c *Client) UpdateJob(ctx context.Context, id string, job jobs.Job) error {
	return c.write(ctx, ActionUpdateJob, id, toRecord(job))
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.write(ctx, ActionDeleteJob, id, nil)
}

// Invalidate drops cached reads
func (c *Client) Invalidate() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

type writeRequest struct {
	Action string  `json:"action"`
	Data   *record `json:"data,omitempty"`
	ID     string  `json:"id,omitempty"`
}

func (c *Client) write(ctx context.Context, action, id string, data *record) error {
	defer c.Invalidate()

	resp, err := c.do(ctx, action, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetHeader("Content-Type", "application/json").
			SetBody(writeRequest{Action: action, Data: data, ID: id}).
			Post("")
	})
	if err != nil {
		config.LogError(c.log, "sheets", "write", action, map[string]string{"id": id}, err)
		return err
	}
	return decodeWrite(action, resp.Body())
}

func (c *Client) get(ctx context.Context, action string) (*resty.Response, error) {
	return c.do(ctx, action, func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParam("action", action).Get("")
	})
}

// do runs one request with retries. Network errors, 408, 429 and 5xx are
// retried with exponential backoff; other failures return immediately.
func (c *Client) do(ctx context.Context, action string, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	start := time.Now()
	defer func() {
		c.metrics.duration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}()

	var resp *resty.Response
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := send(c.http.R().SetContext(ctx))
		if err != nil {
			c.log.WithError(err).WithField("action", action).Debug("request failed")
			return retry.RetryableError(fmt.Errorf("apps script %s: %w", action, err))
		}
		if code := r.StatusCode(); code < 200 || code > 299 {
			rerr := &RemoteError{Action: action, StatusCode: code, Message: http.StatusText(code)}
			if retryableStatus(code) {
				return retry.RetryableError(rerr)
			}
			return rerr
		}
		resp = r
		return nil
	})
	if err != nil {
		c.metrics.requestsTotal.WithLabelValues(action, "error").Inc()
		return nil, err
	}
	c.metrics.requestsTotal.WithLabelValues(action, "ok").Inc()
	return resp, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500
}

// sameDate reports whether a list of more than one record has a single
// repeated date
func sameDate(records []map[string]any) bool {
	if len(records) < 2 {
		return false
	}
	first := fmt.Sprint(records[0]["date"])
	for _, r := range records[1:] {
		if fmt.Sprint(r["date"]) != first {
			return false
		}
	}
	return true
}

func clone(list []jobs.Job) []jobs.Job {
	out := make([]jobs.Job, len(list))
	copy(out, list)
	return out
}
