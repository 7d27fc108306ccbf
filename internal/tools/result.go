package tools

import "fmt"

// Kind classifies a failed tool call.
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindUnauthorized Kind = "unauthorized"
	KindUpstream     Kind = "upstream_error"
	KindUnreachable  Kind = "upstream_unreachable"
	KindUnexpected   Kind = "unexpected_error"
)

// Shape is the declared form of a successful payload.
type Shape string

const (
	ShapeText  Shape = "text"
	ShapeJSON  Shape = "json"
	ShapeImage Shape = "image"
)

// Payload is the body of a successful call. Body holds UTF-8 text for
// ShapeText, a JSON document for ShapeJSON and decoded bytes for ShapeImage.
type Payload struct {
	Shape       Shape
	ContentType string
	Body        []byte
}

// Text returns the payload body as a string.
func (p Payload) Text() string {
	return string(p.Body)
}

// Failure describes why a call did not succeed. StatusCode and StatusText
// are only set for KindUpstream.
type Failure struct {
	Kind       Kind
	Message    string
	StatusCode int
	StatusText string
}

func (f *Failure) Error() string {
	return f.Message
}

// Result is either a Payload or a Failure, never both.
type Result struct {
	payload Payload
	failure *Failure
}

// Success wraps a payload.
func Success(p Payload) Result {
	return Result{payload: p}
}

// Fail wraps a failure.
func Fail(f *Failure) Result {
	return Result{failure: f}
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.failure == nil
}

// Payload returns the success payload. It is the zero Payload on failure.
func (r Result) Payload() Payload {
	return r.payload
}

// Failure returns the failure, or nil on success.
func (r Result) Failure() *Failure {
	return r.failure
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}

// Outcome is a low-cardinality label for metrics and logs.
func (r Result) Outcome() string {
	if r.failure == nil {
		return "success"
	}
	return string(r.failure.Kind)
}

func TextPayload(s string) Payload {
	return Payload{Shape: ShapeText, ContentType: "text/plain; charset=utf-8", Body: []byte(s)}
}

func JSONPayload(b []byte) Payload {
	return Payload{Shape: ShapeJSON, ContentType: "application/json", Body: b}
}

func ImagePayload(b []byte, contentType string) Payload {
	return Payload{Shape: ShapeImage, ContentType: contentType, Body: b}
}

// Invalid returns a validation failure carrying msg verbatim.
func Invalid(msg string) *Failure {
	return &Failure{Kind: KindValidation, Message: msg}
}

// Invalidf is Invalid with formatting.
func Invalidf(format string, args ...interface{}) *Failure {
	return Invalid(fmt.Sprintf(format, args...))
}

// Unauthorized returns an auth failure.
func Unauthorized(msg string) *Failure {
	return &Failure{Kind: KindUnauthorized, Message: msg}
}

// UpstreamStatus returns the failure for a non-2xx upstream response.
func UpstreamStatus(service string, code int, statusText string) *Failure {
	return &Failure{
		Kind:       KindUpstream,
		Message:    fmt.Sprintf("%s error: %d %s", service, code, statusText),
		StatusCode: code,
		StatusText: statusText,
	}
}

// Unreachable returns the failure for a transport-level error.
func Unreachable(service string, err error) *Failure {
	return &Failure{Kind: KindUnreachable, Message: fmt.Sprintf("%s unreachable: %v", service, err)}
}

// Unexpected returns a failure for anything outside the other kinds.
func Unexpected(format string, args ...interface{}) *Failure {
	return &Failure{Kind: KindUnexpected, Message: fmt.Sprintf(format, args...)}
}
