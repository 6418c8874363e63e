// internal/common/http/client.go
package http

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"serverest-suite/internal/common/config"
	"serverest-suite/internal/common/errors"
	"serverest-suite/internal/common/logger"
)

// Options tunes the transport. Base URL and timeout come from the Environment.
type Options struct {
	RetryCount int
	RetryWait  time.Duration
	UserAgent  string
	Debug      bool
	Logger     logger.Logger
}

// OptionsFromConfig maps the http section of the suite config.
func OptionsFromConfig(cfg config.HTTPConfig, log logger.Logger) Options {
	return Options{
		RetryCount: cfg.RetryCount,
		RetryWait:  config.GetDuration(cfg.RetryWait),
		UserAgent:  cfg.UserAgent,
		Debug:      cfg.Debug,
		Logger:     log,
	}
}

// Request describes one call relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   interface{}
	// Token is sent verbatim in the Authorization header (ServeRest tokens carry the "Bearer " prefix).
	Token   string
	Headers map[string]string
}

type Client struct {
	rc     *resty.Client
	env    config.Environment
	logger logger.Logger
}

func NewClient(env config.Environment, opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "serverest-suite"
	}

	rc := resty.New().
		SetBaseURL(env.BaseURL).
		SetTimeout(env.TimeoutDuration()).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", ua).
		SetDebug(opts.Debug)

	if opts.RetryCount > 0 {
		rc.SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(opts.RetryWait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || (r != nil && r.StatusCode() >= http.StatusInternalServerError)
			})
	}

	c := &Client{rc: rc, env: env, logger: log}
	rc.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		c.logger.Debug("http response", map[string]interface{}{
			"method":   r.Request.Method,
			"url":      r.Request.URL,
			"status":   r.StatusCode(),
			"duration": r.Time().String(),
		})
		return nil
	})
	return c
}

// Environment returns the target this client was built for.
func (c *Client) Environment() config.Environment {
	return c.env
}

// Do executes the request. Non-2xx statuses are not errors; only transport
// failures are, reported as REQUEST_FAILED or REQUEST_TIMEOUT.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	r := c.rc.R().SetContext(ctx)
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}
	if req.Token != "" {
		r.SetHeader("Authorization", req.Token)
	}
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, errors.NewRequestTimeoutError(req.Method, req.Path, err)
		}
		return nil, errors.NewRequestFailedError(req.Method, req.Path, err)
	}

	return &Response{
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Header:     resp.Header(),
		Duration:   resp.Time(),
	}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// Response is a fully read HTTP response.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Header     http.Header
	Duration   time.Duration
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.NewDecodeFailedError(typeName(v), err)
	}
	return nil
}

// JSON decodes the body as a JSON object.
func (r *Response) JSON() (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := r.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// Field returns a top-level field of a JSON object body, or nil.
func (r *Response) Field(name string) interface{} {
	m, err := r.JSON()
	if err != nil {
		return nil
	}
	return m[name]
}

// Message returns the ServeRest "message" field, or "" when absent.
func (r *Response) Message() string {
	s, _ := r.Field("message").(string)
	return s
}

// ExpectStatus returns UNEXPECTED_STATUS unless the status equals want.
func (r *Response) ExpectStatus(want int) error {
	if r.StatusCode != want {
		return errors.NewUnexpectedStatusError(r.Method, r.Path, want, r.StatusCode, string(r.Body))
	}
	return nil
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}
