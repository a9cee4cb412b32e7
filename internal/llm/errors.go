package llm

import (
	"errors"
	"fmt"
	"net"
)

// ConfigError reports a configuration problem detected when constructing a Client.
type ConfigError struct {
	Provider string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Provider == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Provider)
}

// NetworkError wraps a failure to complete the HTTP exchange: connection
// refused, timeout, TLS failure or a truncated body.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a timeout.
func (e *NetworkError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// DeserializationError reports a response body that does not match the
// provider's response schema. Body holds the raw response.
type DeserializationError struct {
	Body string
	Err  error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to deserialize LLM API response: %v - body: %s", e.Err, e.Body)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// APIError is a structured failure reported by the provider.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("LLM API error %d: %s", e.Code, e.Message)
}

// UnexpectedStatusError reports a non-success HTTP status that came without a
// structured error object. Body holds the raw response.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("LLM request failed with status %d: %s", e.StatusCode, e.Body)
}

// EmptyResponseError reports a successful response that carried no usable text.
// BlockReason and FinishReason are copied from the response when present, which
// usually points at a safety or content filter.
type EmptyResponseError struct {
	Body         string
	BlockReason  string
	FinishReason string
}

func (e *EmptyResponseError) Error() string {
	msg := "LLM response successful but no text content found"
	if e.BlockReason != "" {
		msg += " (prompt blocked: " + e.BlockReason + ")"
	} else if e.FinishReason != "" {
		msg += " (finish reason: " + e.FinishReason + ")"
	}
	return msg + ". Response: " + e.Body
}

// Kind returns a short stable name for the error class of err, or "" when err
// is not one of this package's errors.
func Kind(err error) string {
	var (
		configErr  *ConfigError
		networkErr *NetworkError
		decodeErr  *DeserializationError
		apiErr     *APIError
		statusErr  *UnexpectedStatusError
		emptyErr   *EmptyResponseError
	)
	switch {
	case errors.As(err, &configErr):
		return "config"
	case errors.As(err, &networkErr):
		return "network"
	case errors.As(err, &decodeErr):
		return "deserialization"
	case errors.As(err, &apiErr):
		return "api"
	case errors.As(err, &statusErr):
		return "unexpected_status"
	case errors.As(err, &emptyErr):
		return "empty_response"
	}
	return ""
}
