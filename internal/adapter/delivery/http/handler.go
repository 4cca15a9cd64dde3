package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
	"github.com/vadimbarashkov/phrase-shortener/internal/usecase"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type linkUseCase interface {
	CreateLink(ctx context.Context, params usecase.CreateLinkParams) (*entity.Link, error)
	ResolvePhrase(ctx context.Context, phrase string, info entity.VisitInfo) (*entity.CachedLink, error)
	GetLinkStats(ctx context.Context, phrase string) (*entity.LinkStats, error)
}

type linkHandler struct {
	useCase  linkUseCase
	validate *validator.Validate
}

func newLinkHandler(useCase linkUseCase, validate *validator.Validate) *linkHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("phrase_format", func(fl validator.FieldLevel) bool {
		_, ok := entity.FormatFromValue(fl.Field().String())
		return ok
	})
	validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		_, ok := entity.LanguageFromValue(fl.Field().String())
		return ok
	})
	validate.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		_, ok := entity.ThemeFromValue(fl.Field().String())
		return ok
	})

	return &linkHandler{
		useCase:  useCase,
		validate: validate,
	}
}

func (h *linkHandler) createLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	link, err := h.useCase.CreateLink(r.Context(), req.toParams())
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidTargetURL):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, invalidTargetURLResponse)
		case errors.Is(err, entity.ErrPhraseAlreadyInUse):
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusConflict)
			render.JSON(w, r, phraseUnavailableResponse)
		case errors.Is(err, entity.ErrVocabularyNotFound):
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, vocabularyUnavailableResponse)
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, serverErrorResponse)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toLinkResponse(link))
}

func (h *linkHandler) redirect(w http.ResponseWriter, r *http.Request) {
	phrase := chi.URLParam(r, "phrase")

	link, err := h.useCase.ResolvePhrase(r.Context(), phrase, visitInfo(r))
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, linkNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	http.Redirect(w, r, link.TargetURL, http.StatusFound)
}

func (h *linkHandler) getLinkStats(w http.ResponseWriter, r *http.Request) {
	phrase := chi.URLParam(r, "phrase")

	stats, err := h.useCase.GetLinkStats(r.Context(), phrase)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, linkNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkStatsResponse(stats))
}

// visitInfo collects the request metadata stored with a visit.
// RemoteAddr has already been replaced with the client address by middleware.RealIP.
func visitInfo(r *http.Request) entity.VisitInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	return entity.VisitInfo{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}
}
