// Package rbslot is the console's gateway to the remote RBSlot REST API.
// Every call carries the session's bearer token and passes through the
// client's registered interceptors once the response (or failure) is known.
package rbslot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Session is the part of the session store the client needs.
type Session interface {
	Token() string
	ClearIfToken(ctx context.Context, token string) (bool, error)
}

// Navigator receives the forced trip back to the login entry point.
type Navigator interface {
	ToLogin()
}

type NavigatorFunc func()

func (f NavigatorFunc) ToLogin() { f() }

// Call describes one finished upstream request.
type Call struct {
	Op       string
	Method   string
	Path     string
	Token    string
	Status   int // 0 when no response was received
	Duration time.Duration
	Err      error
	// Login calls never trigger session expiry handling.
	Login bool
}

// Interceptor observes every finished call, in registration order.
type Interceptor interface {
	Intercept(ctx context.Context, call Call)
}

type InterceptorFunc func(ctx context.Context, call Call)

func (f InterceptorFunc) Intercept(ctx context.Context, call Call) { f(ctx, call) }

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Session    Session
	Navigator  Navigator
	Logger     *slog.Logger
	// Interceptors run after the built-in session expiry interceptor.
	Interceptors []Interceptor
}

type Client struct {
	baseURL      string
	http         *http.Client
	session      Session
	log          *slog.Logger
	interceptors []Interceptor
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		session: opts.Session,
		log:     l,
	}
	c.interceptors = append(c.interceptors, SessionExpiry(opts.Session, opts.Navigator, l))
	c.interceptors = append(c.interceptors, opts.Interceptors...)
	return c
}

// Use registers more interceptors.
func (c *Client) Use(in ...Interceptor) {
	c.interceptors = append(c.interceptors, in...)
}

type request struct {
	op       string
	method   string
	path     string
	body     any
	login    bool
	fallback string
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	token := ""
	if c.session != nil && !r.login {
		token = c.session.Token()
	}

	start := time.Now()
	status, body, err := c.roundTrip(ctx, r, token)
	call := Call{
		Op:       r.op,
		Method:   r.method,
		Path:     r.path,
		Token:    token,
		Status:   status,
		Duration: time.Since(start),
		Login:    r.login,
	}

	if err == nil {
		err = c.decode(r, status, body, out)
	}
	call.Err = err

	for _, in := range c.interceptors {
		in.Intercept(ctx, call)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, r request, token string) (int, []byte, error) {
	var rd io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Op: r.op, Err: err}
	}
	return resp.StatusCode, body, nil
}

func (c *Client) decode(r request, status int, body []byte, out any) error {
	if status < 200 || status > 299 {
		msg := serverMessage(body)
		if msg == "" {
			msg = r.fallback
		}
		if r.login {
			return &AuthError{Status: status, Message: msg}
		}
		return &RequestError{Op: r.op, Status: status, Message: msg}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &RequestError{Op: r.op, Status: status, Message: r.fallback + ": malformed response"}
	}
	return nil
}

func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Error != "" {
		return eb.Error
	}
	return eb.Message
}

// IsTransport reports whether err means the API could not be reached.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
