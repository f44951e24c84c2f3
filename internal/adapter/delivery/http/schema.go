package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/quickurl/internal/entity"
)

const (
	serviceName    = "quickurl"
	serviceVersion = "0.1.0"
)

// healthResponse reports service liveness.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

var healthyResponse = healthResponse{
	Status:  "healthy",
	Service: serviceName,
	Version: serviceVersion,
}

// shortenRequest represents the structure for a request to shorten a URL.
type shortenRequest struct {
	URL       string     `json:"url" validate:"required"`
	Title     *string    `json:"title"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// urlResponse represents the structure for a response containing a shortened URL record.
type urlResponse struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	OriginalURL string    `json:"original_url"`
	ShortURL    string    `json:"short_url"`
	Title       *string   `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	ClickCount  int64     `json:"click_count"`
}

// toURLResponse converts an entity.URL to a urlResponse.
func toURLResponse(url *entity.URL) urlResponse {
	return urlResponse{
		ID:          url.ID,
		Token:       url.Token,
		OriginalURL: url.OriginalURL,
		ShortURL:    url.ShortURL,
		Title:       url.Title,
		CreatedAt:   url.CreatedAt,
		ExpiresAt:   url.ExpiresAt,
		ClickCount:  url.ClickCount,
	}
}

// urlListResponse wraps the collection returned by the listing endpoint.
// URLs is always an array in JSON, never null.
type urlListResponse struct {
	URLs []urlResponse `json:"urls"`
}

// toURLListResponse converts a slice of entity.URL to a urlListResponse.
func toURLListResponse(urls []entity.URL) urlListResponse {
	resp := urlListResponse{
		URLs: make([]urlResponse, 0, len(urls)),
	}

	for i := range urls {
		resp.URLs = append(resp.URLs, toURLResponse(&urls[i]))
	}

	return resp
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Error string `json:"error"`
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse   = errorResponse{Error: "empty request body"}
	invalidRequestBodyResponse = errorResponse{Error: "invalid request body"}
	invalidURLResponse         = errorResponse{Error: "URL must start with http:// or https://"}
	urlNotFoundResponse        = errorResponse{Error: "URL not found"}
	urlExpiredResponse         = errorResponse{Error: "URL has expired"}
	serverErrorResponse        = errorResponse{Error: "server error occurred"}
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	default:
		return "invalid value"
	}
}

// validationErrorResponse constructs an errorResponse from the first validation error.
func validationErrorResponse(err error) errorResponse {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return invalidRequestBodyResponse
	}

	return errorResponse{Error: errs[0].Field() + ": " + messageForTag(errs[0].Tag())}
}
