package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/utafrali/fashly/pkg/errors"
)

// remoteError matches the {"error":{code,message}} envelope written by
// pkg/httputil.
type remoteError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError consumes and closes a non-2xx response and returns an
// AppError carrying the remote code and message when the body uses the
// error envelope.
func ParseResponseError(resp *http.Response, source string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (read body: %w)", source, resp.StatusCode, err)
	}

	code, message := "", string(body)
	var env remoteError
	if json.Unmarshal(body, &env) == nil && env.Error != nil {
		code, message = env.Error.Code, env.Error.Message
	}
	return mapStatus(resp, code, message, source)
}

func mapStatus(resp *http.Response, code, message, source string) error {
	qualified := fmt.Sprintf("%s: %s", source, message)

	switch status := resp.StatusCode; {
	case status == http.StatusNotFound:
		target := source
		if resp.Request != nil && resp.Request.URL != nil {
			target = resp.Request.URL.Path
		}
		return apperrors.NotFound(source+" resource", target)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusTooManyRequests:
		return &apperrors.AppError{Code: "RATE_LIMITED", Message: qualified, Status: status, Err: apperrors.ErrRateLimited}
	case status >= 500:
		return apperrors.Unavailable(qualified, fmt.Errorf("%s status %d: %w", source, status, apperrors.ErrServiceUnavail))
	default:
		if code == "" {
			code = http.StatusText(status)
		}
		return &apperrors.AppError{Code: code, Message: qualified, Status: status}
	}
}

// IsClientError reports whether status is a 4xx.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
