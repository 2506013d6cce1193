package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dstu/internal/domain"
)

// problemDetail is the backend's RFC 7807 Problem Details error body. The
// backend adds a "code" extension member carrying the domain taxonomy code;
// when present it takes precedence over the HTTP status mapping.
type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code,omitempty"`
}

// errorFromResponse turns a non-2xx response into a structured domain error.
// Callers branch on the code, so every failure path must produce one - an
// unparsable body still maps through the HTTP status.
func (c *Client) errorFromResponse(method string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var problem problemDetail
	if err := json.Unmarshal(body, &problem); err != nil {
		problem = problemDetail{Status: resp.StatusCode}
	}
	detail := problem.Detail
	if detail == "" {
		detail = fmt.Sprintf("%s failed with status %d", method, resp.StatusCode)
	}

	switch domain.Code(problem.Code) {
	case domain.CodeNotFound:
		return &domain.NotFoundError{Message: detail}
	case domain.CodeValidation:
		return &domain.ValidationError{Message: detail}
	case domain.CodeConflict:
		return &domain.ConflictError{Message: detail}
	case domain.CodeCircularRef:
		return &domain.CircularReferenceError{Message: detail}
	case domain.CodePermissionDenied:
		return &domain.PermissionError{Message: detail}
	case domain.CodeInternal:
		return &domain.InternalError{Message: detail}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &domain.NotFoundError{Message: detail}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &domain.ValidationError{Message: detail}
	case http.StatusConflict:
		return &domain.ConflictError{Message: detail}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &domain.PermissionError{Message: detail}
	default:
		return &domain.InternalError{Message: detail}
	}
}
