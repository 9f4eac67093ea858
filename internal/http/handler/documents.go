package handler

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"docsearch/internal/database"
	"docsearch/internal/http/middleware"
	"docsearch/internal/service"
)

// HealthCheck reports whether the database answers a ping.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db, 2*time.Second); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListDocuments godoc
// @Summary List documents
// @Param scope query string false "all, mine or others"
// @Param limit query int false "page size"
// @Param offset query int false "rows to skip"
// @Success 200 {object} service.DocumentListResult
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := queryInt(c, "limit")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := queryInt(c, "offset")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		scope, err := service.ParseListScope(c.Query("scope"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SCOPE", "scope must be one of all, mine, others")
		}
		owner, _ := middleware.OwnerID(c)

		res, err := svc.List(c.UserContext(), scope, owner, limit, offset)
		if err != nil {
			return writeServiceError(c, err, fiber.StatusInternalServerError, "INTERNAL_ERROR")
		}
		return c.JSON(res)
	}
}

// Search godoc
// @Summary Search title, author and extracted text
// @Param q query string true "search text"
// @Success 200 {object} service.DocumentListResult
// @Router /search [get]
func Search(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := queryInt(c, "limit")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := queryInt(c, "offset")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.Search(c.UserContext(), c.Query("q"), limit, offset)
		if err != nil {
			return writeServiceError(c, err, fiber.StatusInternalServerError, "INTERNAL_ERROR")
		}
		return c.JSON(res)
	}
}

// UploadDocument godoc
// @Summary Upload a document (multipart/form-data, file field: file)
// @Accept multipart/form-data
// @Success 201 {object} model.Document
// @Failure 422 {object} validationPayload
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, _ := middleware.OwnerID(c)
		in := service.UploadInput{
			OwnerID: owner,
			Title:   c.FormValue("title"),
			Author:  c.FormValue("author"),
			ISBN:    c.FormValue("isbn"),
			Size:    -1,
		}

		fh, err := c.FormFile("file")
		switch {
		case err == nil:
			f, openErr := fh.Open()
			if openErr != nil {
				in.FileErr = openErr
				break
			}
			defer f.Close()
			in.File = f
			in.OriginalFilename = fh.Filename
			in.Size = fh.Size
			in.ContentType = fh.Header.Get("Content-Type")
			if in.ContentType == "" {
				in.ContentType = "application/octet-stream"
			}
		case errors.Is(err, fasthttp.ErrMissingFile), errors.Is(err, fasthttp.ErrNoMultipartForm):
			// Reported by validation as a missing file.
		default:
			in.FileErr = err
		}

		doc, err := svc.Ingest(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE")
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument godoc
// @Summary Get document metadata
// @Param id path int true "document id"
// @Success 200 {object} model.Document
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := documentID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, fiber.StatusInternalServerError, "INTERNAL_ERROR")
		}
		return c.JSON(doc)
	}
}

// GetDocumentContent godoc
// @Summary Get the extracted text of a document
// @Param id path int true "document id"
// @Success 200 {object} model.Content
// @Router /documents/{id}/content [get]
func GetDocumentContent(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := documentID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		content, err := svc.GetContent(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, fiber.StatusInternalServerError, "INTERNAL_ERROR")
		}
		return c.JSON(content)
	}
}

// DocumentFile redirects to a download URL of the original file.
// @Summary Download the original file
// @Param id path int true "document id"
// @Success 302
// @Router /documents/{id}/file [get]
func DocumentFile(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := documentID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.FileURL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, fiber.StatusInternalServerError, "INTERNAL_ERROR")
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}

// Dashboard godoc
// @Summary Overview of the caller's uploads
// @Param X-User-ID header int true "owner id"
// @Success 200 {object} service.Dashboard
// @Router /dashboard [get]
func Dashboard(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := middleware.OwnerID(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "OWNER_REQUIRED", "a valid "+middleware.OwnerHeader+" header is required")
		}
		limit, err := queryInt(c, "limit")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		d, err := svc.Dashboard(c.UserContext(), owner, limit)
		if err != nil {
			return writeServiceError(c, err, fiber.StatusInternalServerError, "INTERNAL_ERROR")
		}
		return c.JSON(d)
	}
}

func documentID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, service.ErrIDRequired
	}
	return id, nil
}

// queryInt returns 0 for an absent parameter so the service default applies.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return n, nil
}
