package offline

import (
	"net/http"
)

// Request is the engine's view of an intercepted fetch. Navigate marks
// full-page loads (the browser's "navigate" request mode).
type Request struct {
	Method   string
	URL      string
	Header   http.Header
	Body     []byte
	Navigate bool
}

// Key is the request identity used for cache lookups.
func (r *Request) Key() string {
	return r.Method + " " + r.URL
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports whether the response has a successful (cacheable) status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}
