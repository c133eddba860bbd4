package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "modion/internal/errors"
	"modion/internal/media"
	"modion/internal/middleware"
	"modion/internal/service"
)

const imageField = "image"

// ArticleHandler handles article endpoints.
type ArticleHandler struct {
	articleService service.ArticleService
	maxUploadBytes int64
}

// NewArticleHandler creates a new article handler. Uploaded images larger
// than maxUploadBytes are rejected.
func NewArticleHandler(articleService service.ArticleService, maxUploadBytes int64) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, maxUploadBytes: maxUploadBytes}
}

// List godoc
// @Summary List published articles
// @Tags articles
// @Produce json
// @Success 200 {array} ArticleResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	articles, err := h.articleService.ListPublished(c.Request().Context())
	if err != nil {
		return mapError(c, err, http.StatusInternalServerError, "Error fetching articles")
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles))
}

// Featured godoc
// @Summary List featured articles
// @Description Returns at most three published, featured articles, newest first.
// @Tags articles
// @Produce json
// @Success 200 {array} ArticleResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles/featured [get]
func (h *ArticleHandler) Featured(c echo.Context) error {
	articles, err := h.articleService.ListFeatured(c.Request().Context())
	if err != nil {
		return mapError(c, err, http.StatusInternalServerError, "Error fetching featured articles")
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles))
}

// Search godoc
// @Summary Search published articles
// @Tags articles
// @Produce json
// @Param q query string true "Text to find in titles, sections or tags"
// @Success 200 {array} ArticleResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles/search [get]
func (h *ArticleHandler) Search(c echo.Context) error {
	articles, err := h.articleService.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return mapError(c, err, http.StatusInternalServerError, "Error searching articles")
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles))
}

// Categories godoc
// @Summary Categories with article counts
// @Tags articles
// @Produce json
// @Success 200 {array} repository.CategoryCount
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles/categories [get]
func (h *ArticleHandler) Categories(c echo.Context) error {
	counts, err := h.articleService.Categories(c.Request().Context())
	if err != nil {
		return mapError(c, err, http.StatusInternalServerError, "Error fetching categories")
	}
	return c.JSON(http.StatusOK, counts)
}

// ByCategory godoc
// @Summary List published articles in a category
// @Tags articles
// @Produce json
// @Param category path string true "Category"
// @Success 200 {array} ArticleResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles/category/{category} [get]
func (h *ArticleHandler) ByCategory(c echo.Context) error {
	articles, err := h.articleService.ListByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return mapError(c, err, http.StatusInternalServerError, "Error fetching articles by category")
	}
	return c.JSON(http.StatusOK, toArticleResponses(articles))
}

// Get godoc
// @Summary Get a published article
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} ArticleResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	article, err := h.articleService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err, http.StatusInternalServerError, "Error fetching article")
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

// Create godoc
// @Summary Create an article
// @Description Multipart form with an image file. tags and sections are JSON-encoded strings.
// @Tags articles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Cover image"
// @Param id formData string false "Article ID"
// @Param title formData string true "Title"
// @Param category formData string true "Category"
// @Param sections formData string true "JSON array of sections"
// @Param tags formData string false "JSON array of tags"
// @Param reading_time formData string false "Reading time, computed when omitted"
// @Param meta_description formData string false "Meta description"
// @Param featured formData string false "true or false"
// @Param status formData string false "draft, published or archived"
// @Success 201 {object} ArticleResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Message: "Not authenticated"})
	}

	payload, image, err := h.readArticle(c)
	if err != nil {
		return mapError(c, err, http.StatusBadRequest, "Error creating article")
	}

	article, err := h.articleService.Create(c.Request().Context(), user, payload, image)
	if err != nil {
		return mapError(c, err, http.StatusBadRequest, "Error creating article")
	}
	return c.JSON(http.StatusCreated, toArticleResponse(article))
}

// Update godoc
// @Summary Update an article
// @Description Author or admin only. Accepts the create form, with an optional image, or a JSON body.
// @Tags articles
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param image formData file false "New cover image"
// @Success 200 {object} ArticleResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Message: "Not authenticated"})
	}

	payload, image, err := h.readArticle(c)
	if err != nil {
		return mapError(c, err, http.StatusBadRequest, "Error updating article")
	}

	article, err := h.articleService.Update(c.Request().Context(), user, c.Param("id"), payload, image)
	if err != nil {
		return mapError(c, err, http.StatusBadRequest, "Error updating article")
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

// Delete godoc
// @Summary Delete an article
// @Description Author or admin only. The cover image is removed from the media host when possible.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Message: "Not authenticated"})
	}

	if err := h.articleService.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return mapError(c, err, http.StatusInternalServerError, "Error deleting article")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Article deleted successfully"})
}

// readArticle collects the article fields and optional image from a
// multipart form, a urlencoded form or a JSON body.
func (h *ArticleHandler) readArticle(c echo.Context) (service.ArticlePayload, *media.Source, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(contentType, echo.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return service.ArticlePayload{}, nil, &apperrors.ValidationError{Err: err}
		}
		payload, err := service.NormalizeArticle(firstValues(form.Value))
		if err != nil {
			return service.ArticlePayload{}, nil, err
		}
		files := form.File[imageField]
		if len(files) == 0 {
			return payload, nil, nil
		}
		image, err := h.readImage(files[0])
		return payload, image, err

	case strings.HasPrefix(contentType, echo.MIMEApplicationJSON):
		fields := map[string]any{}
		if err := json.NewDecoder(c.Request().Body).Decode(&fields); err != nil {
			return service.ArticlePayload{}, nil, &apperrors.ValidationError{Err: err}
		}
		payload, err := service.NormalizeArticle(fields)
		if err != nil {
			return service.ArticlePayload{}, nil, err
		}
		// A data URI in the image field is a new upload; a plain URL is the
		// current image echoed back.
		if ref, ok := fields[imageField].(string); ok && strings.HasPrefix(ref, "data:") {
			src := media.FromString(ref)
			return payload, &src, nil
		}
		return payload, nil, nil

	default:
		values, err := c.FormParams()
		if err != nil {
			return service.ArticlePayload{}, nil, &apperrors.ValidationError{Err: err}
		}
		payload, err := service.NormalizeArticle(firstValues(values))
		return payload, nil, err
	}
}

func (h *ArticleHandler) readImage(fh *multipart.FileHeader) (*media.Source, error) {
	if !strings.HasPrefix(fh.Header.Get(echo.HeaderContentType), "image/") {
		return nil, apperrors.ErrImageType
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return nil, apperrors.ErrImageTooLarge
	}
	src, err := media.FromFileHeader(fh)
	if err != nil {
		return nil, err
	}
	return &src, nil
}

func firstValues(values map[string][]string) map[string]any {
	fields := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields
}
