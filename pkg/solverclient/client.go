// Package solverclient fetches solutions, indictments and score analyses
// from the solver service.
package solverclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lintang/routeviz/pkg/indictment"
	"lintang/routeviz/pkg/server"
	"lintang/routeviz/pkg/solution"

	"golang.org/x/exp/slices"
)

const defaultTimeout = 10 * time.Second

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL string
	prefix  string
	session *http.Client
}

// NewClient talks to the solver at baseURL, whose resources live under
// /prefix (e.g. "fdo"). A nil session gets a client with a 10s timeout.
func NewClient(baseURL, prefix string, session *http.Client) *Client {
	if session == nil {
		session = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  strings.Trim(prefix, "/"),
		session: session,
	}
}

func (c *Client) endpoint(parts ...string) string {
	segs := make([]string, 0, len(parts)+1)
	if c.prefix != "" {
		segs = append(segs, c.prefix)
	}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return c.baseURL + "/" + strings.Join(segs, "/")
}

func (c *Client) get(ctx context.Context, op, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "%s: create request", op)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrUpstream, "%s: %v", op, err)
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		herr := &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
		if resp.StatusCode == http.StatusNotFound {
			return nil, server.WrapErrorf(herr, server.ErrNotFound, "%s: not found", op)
		}
		return nil, server.WrapErrorf(herr, server.ErrUpstream, "%s: %v", op, herr)
	}
	return resp.Body, nil
}

func (c *Client) getJSON(ctx context.Context, op, rawURL string, v any) error {
	body, err := c.get(ctx, op, rawURL)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return server.WrapErrorf(err, server.ErrUpstream, "%s: decode: %v", op, err)
	}
	return nil
}

// Solution fetches and normalizes the solution with the given id.
func (c *Client) Solution(ctx context.Context, id string) (*solution.Solution, error) {
	op := "fetch solution " + id
	body, err := c.get(ctx, op, c.endpoint(id))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	sol, err := solution.Decode(body)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrUpstream, "%s: %v", op, err)
	}
	return sol, nil
}

func (c *Client) Indictments(ctx context.Context, id string) ([]indictment.Indictment, error) {
	var out []indictment.Indictment
	if err := c.getJSON(ctx, "fetch indictments "+id, c.endpoint("indictments", id), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []indictment.Indictment{}
	}
	return out, nil
}

func (c *Client) Analysis(ctx context.Context, id string) (*indictment.Analysis, error) {
	var out indictment.Analysis
	if err := c.getJSON(ctx, "fetch score analysis "+id, c.endpoint("score", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the solution ids known to the solver, sorted.
func (c *Client) List(ctx context.Context) ([]string, error) {
	var raw []indictment.EntityID
	if err := c.getJSON(ctx, "list solutions", c.endpoint(), &raw); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, string(id))
	}
	slices.Sort(ids)
	return ids, nil
}

// IsNotFound reports whether err is the solver's answer for an unknown id.
func IsNotFound(err error) bool {
	return errors.Is(server.CodeOf(err), server.ErrNotFound)
}
