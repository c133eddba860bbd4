package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrArticleNotFound is returned when no article matches the requested id.
	ErrArticleNotFound = errors.New("Article not found")
	// ErrArticleIDExists is returned when a supplied article id is already taken.
	ErrArticleIDExists = errors.New("Article ID already exists")
	// ErrUpdateForbidden is returned when the caller may not update the article.
	ErrUpdateForbidden = errors.New("You are not authorized to update this article")
	// ErrDeleteForbidden is returned when the caller may not delete the article.
	ErrDeleteForbidden = errors.New("You are not authorized to delete this article")
	// ErrImageRequired is returned when an article is created without an image.
	ErrImageRequired = errors.New("Image file is required")
	// ErrImageType is returned when the uploaded file is not an image.
	ErrImageType = errors.New("Only image files are allowed!")
	// ErrImageTooLarge is returned when the uploaded file exceeds the size limit.
	ErrImageTooLarge = errors.New("Image file is too large")
	// ErrInvalidTags is returned when tags cannot be decoded.
	ErrInvalidTags = errors.New("Invalid tags format")
	// ErrInvalidSections is returned when sections cannot be decoded.
	ErrInvalidSections = errors.New("Invalid sections format")
	// ErrSearchQueryRequired is returned when a search has no query.
	ErrSearchQueryRequired = errors.New("Search query is required")

	// ErrEmailExists is returned when registering an email that is already taken.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned for any login mismatch.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrUserNotFound is returned when a token references a missing user.
	ErrUserNotFound = errors.New("Unauthorized: User not found")
	// ErrTokenRevoked is returned when a token was revoked by logout.
	ErrTokenRevoked = errors.New("token has been revoked")

	// ErrAlreadySubscribed is returned when the email is already subscribed.
	ErrAlreadySubscribed = errors.New("You're already subscribed")
	// ErrEmailRequired is returned when subscribing without an email.
	ErrEmailRequired = errors.New("Email is required")
	// ErrContactFieldsRequired is returned when a contact message is incomplete.
	ErrContactFieldsRequired = errors.New("All fields are required.")
)

// ValidationError reports a record or payload that failed validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UploadError carries the media host's failure message.
// Summary is the client-facing message, Message the host's own.
type UploadError struct {
	Summary string
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, detail string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Detail:     detail,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Error:   e.Detail,
	}
}

// statusBySentinel lists the HTTP status for every sentinel error.
var statusBySentinel = []struct {
	err    error
	status int
}{
	{ErrArticleNotFound, http.StatusNotFound},
	{ErrUpdateForbidden, http.StatusForbidden},
	{ErrDeleteForbidden, http.StatusForbidden},
	{ErrArticleIDExists, http.StatusBadRequest},
	{ErrImageRequired, http.StatusBadRequest},
	{ErrImageType, http.StatusBadRequest},
	{ErrImageTooLarge, http.StatusBadRequest},
	{ErrInvalidTags, http.StatusBadRequest},
	{ErrInvalidSections, http.StatusBadRequest},
	{ErrSearchQueryRequired, http.StatusBadRequest},
	{ErrEmailExists, http.StatusBadRequest},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrUserNotFound, http.StatusUnauthorized},
	{ErrTokenRevoked, http.StatusUnauthorized},
	{ErrAlreadySubscribed, http.StatusConflict},
	{ErrEmailRequired, http.StatusBadRequest},
	{ErrContactFieldsRequired, http.StatusBadRequest},
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything unclassified becomes fallbackStatus with fallbackMessage and the
// underlying error text as detail.
func MapErrorToHTTP(err error, fallbackStatus int, fallbackMessage string) *HTTPError {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return NewHTTPError(s.status, s.err.Error(), "")
		}
	}

	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		return NewHTTPError(http.StatusBadRequest, uploadErr.Summary, uploadErr.Message)
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewHTTPError(http.StatusBadRequest, fallbackMessage, validationErr.Error())
	}
	return NewHTTPError(fallbackStatus, fallbackMessage, err.Error())
}
