package tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/toolgate/internal/common"
)

// maxResponseSize caps upstream response bodies.
const maxResponseSize = 50 << 20 // 50MB

// Dispatcher performs exactly one upstream HTTP request per call. It never
// retries.
type Dispatcher struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *common.Logger
	metrics    *Metrics
}

// NewDispatcher creates a dispatcher. A nil client uses a plain http.Client.
// timeout bounds each upstream call on top of the caller's context; zero
// means no extra bound.
func NewDispatcher(client *http.Client, timeout time.Duration, logger *common.Logger, metrics *Metrics) *Dispatcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Dispatcher{
		httpClient: client,
		timeout:    timeout,
		logger:     logger,
		metrics:    metrics,
	}
}

// BuildRequest derives the upstream request from a descriptor and validated
// arguments. It only fails on a missing required credential or an endpoint
// that cannot be formed.
func BuildRequest(d Descriptor, a Args) (*UpstreamRequest, *Failure) {
	token := d.token(a)
	if d.Auth == AuthRequired && token == "" {
		return nil, Invalid(d.MissingToken)
	}

	target, err := d.Endpoint(a)
	if err != nil {
		return nil, Unexpected("%s: %v", d.Service, err)
	}

	req := &UpstreamRequest{
		Method: d.Method,
		URL:    target,
		Header: make(http.Header),
	}

	if d.Auth != AuthNone && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, fh := range d.FlagHeaders {
		if a.Bool(fh.Param) {
			req.Header.Set(fh.Header, fh.Value)
		}
	}

	if d.Body != nil {
		body, err := json.Marshal(d.Body(a))
		if err != nil {
			return nil, Unexpected("failed to marshal %s request: %v", d.Service, err)
		}
		req.Body = body
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Dispatch builds and executes the upstream call for d. The call is bound to
// ctx, so it is abandoned when the inbound connection goes away.
func (d *Dispatcher) Dispatch(ctx context.Context, desc Descriptor, a Args) Result {
	spec, f := BuildRequest(desc, a)
	if f != nil {
		return Fail(f)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if spec.Body != nil {
		bodyReader = bytes.NewReader(spec.Body)
	}
	req, err := http.NewRequestWithContext(ctx, spec.Method, spec.URL, bodyReader)
	if err != nil {
		return Fail(Unexpected("%s: %v", desc.Service, err))
	}
	req.Header = spec.Header.Clone()

	d.logger.Debug().Str("tool", desc.Name).Str("method", spec.Method).Str("url", spec.URL).Msg("upstream request")

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		d.logger.Error().Str("tool", desc.Name).Str("method", spec.Method).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("upstream request failed")
		d.metrics.ObserveUpstream(desc.Upstream, string(KindUnreachable), duration)
		return Fail(Unreachable(desc.Service, err))
	}
	defer resp.Body.Close()

	d.logger.Debug().Str("tool", desc.Name).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("upstream response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		d.metrics.ObserveUpstream(desc.Upstream, string(KindUpstream), duration)
		return Fail(UpstreamStatus(desc.Service, resp.StatusCode, statusText(resp)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		d.metrics.ObserveUpstream(desc.Upstream, string(KindUnreachable), duration)
		return Fail(Unreachable(desc.Service, fmt.Errorf("failed to read response: %w", err)))
	}
	if len(body) > maxResponseSize {
		d.metrics.ObserveUpstream(desc.Upstream, string(KindUnexpected), duration)
		return Fail(Unexpected("%s response exceeds %d bytes", desc.Service, maxResponseSize))
	}

	res := decodePayload(desc, body)
	d.metrics.ObserveUpstream(desc.Upstream, res.Outcome(), duration)
	return res
}

func decodePayload(desc Descriptor, body []byte) Result {
	switch desc.Shape {
	case ShapeJSON:
		if !json.Valid(body) {
			return Fail(Unexpected("%s returned a malformed JSON response", desc.Service))
		}
		return Success(JSONPayload(body))
	case ShapeImage:
		img, err := decodeImage(body)
		if err != nil {
			return Fail(Unexpected("Error generating image: %v", err))
		}
		return Success(ImagePayload(img, "image/jpeg"))
	default:
		return Success(TextPayload(string(body)))
	}
}

// decodeImage reads the base64 "image" field, either at the top level or
// inside the "result" envelope of the REST API.
func decodeImage(body []byte) ([]byte, error) {
	var resp struct {
		Image  string `json:"image"`
		Result struct {
			Image string `json:"image"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	encoded := resp.Image
	if encoded == "" {
		encoded = resp.Result.Image
	}
	if encoded == "" {
		return nil, fmt.Errorf("response has no image")
	}
	img, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid image encoding: %w", err)
	}
	return img, nil
}

// statusText returns the reason phrase the upstream sent, falling back to
// the standard text for the code.
func statusText(resp *http.Response) string {
	if text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
