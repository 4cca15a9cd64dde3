package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
	"github.com/vadimbarashkov/phrase-shortener/internal/usecase"
)

const statusError = "error"

// createLinkRequest represents the structure for a request to create a link.
// Omitted format and language fall back to the configured defaults.
type createLinkRequest struct {
	TargetURL string `json:"target_url" validate:"required,http_url,max=4096"`
	Format    string `json:"format" validate:"omitempty,phrase_format"`
	Language  string `json:"language" validate:"omitempty,language"`
	Theme     string `json:"theme" validate:"omitempty,theme"`
}

// toParams converts a validated request into use case parameters.
func (r createLinkRequest) toParams() usecase.CreateLinkParams {
	format, _ := entity.FormatFromValue(r.Format)
	lang, _ := entity.LanguageFromValue(r.Language)
	theme, _ := entity.ThemeFromValue(r.Theme)

	return usecase.CreateLinkParams{
		TargetURL: r.TargetURL,
		Format:    format,
		Language:  lang,
		Theme:     theme,
	}
}

type linkResponse struct {
	ID        string          `json:"id"`
	Phrase    string          `json:"phrase"`
	TargetURL string          `json:"target_url"`
	Language  entity.Language `json:"language"`
	Theme     entity.Theme    `json:"theme"`
	CreatedAt time.Time       `json:"created_at"`
}

func toLinkResponse(link *entity.Link) linkResponse {
	return linkResponse{
		ID:        link.ID,
		Phrase:    link.Phrase.String(),
		TargetURL: link.TargetURL,
		Language:  link.Language,
		Theme:     link.Theme,
		CreatedAt: link.CreatedAt,
	}
}

type linkStatsResponse struct {
	Phrase      string `json:"phrase"`
	TargetURL   string `json:"target_url"`
	TotalVisits int64  `json:"total_visits"`
}

func toLinkStatsResponse(stats *entity.LinkStats) linkStatsResponse {
	return linkStatsResponse{
		Phrase:      stats.Link.Phrase.String(),
		TargetURL:   stats.Link.TargetURL,
		TotalVisits: stats.TotalVisits,
	}
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	invalidTargetURLResponse = errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors: []validationError{{
			Field:   "target_url",
			Message: "invalid url",
		}},
	}

	linkNotFoundResponse = errorResponse{
		Status:  statusError,
		Message: "link not found",
	}

	phraseUnavailableResponse = errorResponse{
		Status:  statusError,
		Message: "no free phrase found, try again",
	}

	vocabularyUnavailableResponse = errorResponse{
		Status:  statusError,
		Message: "phrase vocabulary is unavailable",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "http_url":
		return "invalid url"
	case "max":
		return "value is too long"
	case "phrase_format", "language", "theme":
		return "unsupported value"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}
