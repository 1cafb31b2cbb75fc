package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/crmarques/srvinv/inventory"
	"github.com/crmarques/srvinv/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Do performs one exchange. Failures to reach the service, or to read a
// complete response, are reported as transport.StatusUnreachable; a body
// that is not valid JSON as transport.StatusMalformed. An empty body yields
// a null payload with the real status.
func (g *Gateway) Do(ctx context.Context, request transport.Request) transport.Response {
	ctx = contextOrBackground(ctx)
	method := strings.ToUpper(strings.TrimSpace(request.Method))
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := g.tracer.Start(ctx, "srvinv "+method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("srvinv.collection", inventory.Plural(request.Collection)),
	)

	started := g.now()
	response := g.execute(ctx, method, request)
	g.metrics.ObserveRequest(method, response.Status, g.now().Sub(started))

	span.SetAttributes(attribute.Int("http.response.status_code", response.Status))
	if response.Err != nil {
		span.RecordError(response.Err)
		span.SetStatus(codes.Error, response.Err.Error())
	}
	return response
}

func (g *Gateway) execute(ctx context.Context, method string, request transport.Request) transport.Response {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return unreachable(transportError("request rate limit wait aborted", err))
		}
	}

	target, err := g.resolveURL(request)
	if err != nil {
		return unreachable(err)
	}

	var bodyReader io.Reader
	if len(request.Body) > 0 {
		bodyReader = bytes.NewReader(request.Body)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, method, target.String(), bodyReader)
	if err != nil {
		return unreachable(transportError("failed to create request", err))
	}
	requestID := newRequestID()
	g.applyHeaders(httpRequest, requestID, len(request.Body) > 0)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("srvinv.request_id", requestID))

	httpResponse, err := g.doRequest(ctx, httpRequest)
	if err != nil {
		return unreachable(transportError("request failed", err))
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxResponseBytes))
	if err != nil {
		return unreachable(transportError("failed to read response body", err))
	}

	return decodeResponse(httpResponse.StatusCode, body)
}

func decodeResponse(status int, body []byte) transport.Response {
	if len(bytes.TrimSpace(body)) == 0 {
		return transport.Response{Status: status, Payload: inventory.Null()}
	}

	payload, err := inventory.Parse(body)
	if err != nil {
		return transport.Response{
			Status:  transport.StatusMalformed,
			Payload: inventory.Null(),
			Err:     decodeError("response with status "+strconv.Itoa(status)+" is not valid JSON: "+summarizeBody(body), err),
		}
	}
	return transport.Response{Status: status, Payload: payload}
}

func unreachable(err error) transport.Response {
	return transport.Response{Status: transport.StatusUnreachable, Payload: inventory.Null(), Err: err}
}

func summarizeBody(body []byte) string {
	const limit = 160

	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

