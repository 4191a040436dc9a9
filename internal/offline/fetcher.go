package offline

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
)

// Fetcher is the injected network dependency of the engine.
type Fetcher interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// HTTPFetcher issues requests through a standard http.Client.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

// RebaseFetcher resolves relative URLs against an upstream base before
// delegating. The engine itself works with the paths the client saw.
type RebaseFetcher struct {
	Base string
	Next Fetcher
}

func (f *RebaseFetcher) Do(ctx context.Context, req *Request) (*Response, error) {
	if strings.HasPrefix(req.URL, "/") {
		rebased := *req
		rebased.URL = strings.TrimSuffix(f.Base, "/") + req.URL
		resp, err := f.Next.Do(ctx, &rebased)
		return resp, err
	}
	return f.Next.Do(ctx, req)
}

func (f *HTTPFetcher) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	httpResp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header.Clone(),
		Body:   respBody,
	}, nil
}
