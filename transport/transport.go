package transport

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/crmarques/srvinv/inventory"
)

// Reserved statuses. Both are negative so they can never collide with an
// HTTP status code.
const (
	// StatusUnreachable reports that the service could not be reached or the
	// exchange was cut short before a complete response arrived.
	StatusUnreachable = -1
	// StatusMalformed reports a response body that is not valid JSON.
	StatusMalformed = -2
)

// Request addresses {collection}s[/{id}][/{attribute}] on the inventory
// service. Body is sent verbatim when non-empty.
type Request struct {
	Method     string
	Collection string
	ID         string
	Attribute  string
	Body       []byte
}

// Response is the (status, payload) pair of one exchange. Payload is null
// when the service answered with an empty body or the exchange failed. Err
// carries the underlying cause of a reserved status for diagnostics only.
type Response struct {
	Status  int
	Payload inventory.Value
	Err     error
}

func (r Response) Unreachable() bool {
	return r.Status == StatusUnreachable
}

func (r Response) Malformed() bool {
	return r.Status == StatusMalformed
}

// Transport sends one request and reports its outcome as a Response. It never
// retries and never returns an error: failures surface as reserved statuses.
type Transport interface {
	Do(ctx context.Context, request Request) Response
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, request Request) Response

func (f Func) Do(ctx context.Context, request Request) Response {
	return f(ctx, request)
}

func Get(collection string, id string) Request {
	return Request{Method: http.MethodGet, Collection: collection, ID: id}
}

func List(collection string) Request {
	return Request{Method: http.MethodGet, Collection: collection}
}

func Patch(collection string, id string, attribute string, body []byte) Request {
	return Request{Method: http.MethodPatch, Collection: collection, ID: id, Attribute: attribute, Body: body}
}

func Post(collection string, body []byte) Request {
	return Request{Method: http.MethodPost, Collection: collection, Body: body}
}

func Delete(collection string, id string) Request {
	return Request{Method: http.MethodDelete, Collection: collection, ID: id}
}

// Path renders the request path relative to the API version segment. The
// collection is pluralized; id and attribute are escaped as single segments.
func (r Request) Path() string {
	segments := []string{url.PathEscape(inventory.Plural(r.Collection))}
	if id := strings.TrimSpace(r.ID); id != "" {
		segments = append(segments, url.PathEscape(id))
	}
	if attribute := strings.TrimSpace(r.Attribute); attribute != "" {
		segments = append(segments, url.PathEscape(attribute))
	}
	return strings.Join(segments, "/")
}
