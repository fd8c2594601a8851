package document

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pdfvault/internal/pkg/response"
)

// multipartOverhead is allowed on top of MaxFileSize for multipart framing.
const multipartOverhead = 1 << 20

// Handler exposes upload, download and list over HTTP. The owner comes from
// the "owner" context key set by the auth middleware.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload godoc
// @Summary Upload a PDF
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PDF file, at most 25MB"
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,500 {object} map[string]interface{}
// @Router /file/upload [post]
func (h *Handler) Upload(c *gin.Context) {
	owner := mustOwner(c)
	if owner == "" {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSize+multipartOverhead)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusBadRequest, response.CodeInvalidInput, ErrFileTooLarge.Error())
			return
		}
		response.Error(c, http.StatusBadRequest, response.CodeInvalidInput, "no file provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidInput, "could not read uploaded file")
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(c.Request.Context(), UploadInput{
		Content:     file,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Owner:       owner,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toResponse(doc))
}

// Download godoc
// @Summary Download a PDF by id
// @Tags Files
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {file} binary
// @Failure 404,500 {object} map[string]interface{}
// @Router /file/download/{id} [get]
func (h *Handler) Download(c *gin.Context) {
	dl, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	defer dl.Close()

	c.DataFromReader(http.StatusOK, dl.Size, AcceptedContentType, dl.File, map[string]string{
		"Content-Disposition": contentDisposition(dl.DisplayName),
	})
}

// ListByOwner godoc
// @Summary List files of a user
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Param userName query string false "Owner; defaults to the caller"
// @Success 200 {object} map[string]interface{}
// @Router /file/getAll [get]
func (h *Handler) ListByOwner(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidInput, err.Error())
		return
	}

	owner := q.UserName
	if owner == "" {
		owner = mustOwner(c)
		if owner == "" {
			return
		}
	}

	docs, err := h.service.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponses(docs))
}

func writeError(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "internal error")
		return
	}

	switch e.Kind {
	case KindInvalidInput:
		response.Error(c, http.StatusBadRequest, response.CodeInvalidInput, e.Reason())
	case KindNotFound:
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "file not found")
	case KindStorageFailure:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeStorageFailure, "file storage failed")
	case KindMetadataFailure:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeMetadataFailure, "file metadata failed")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "internal error")
	}
}

func contentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment; filename=" + strconv.Quote(defaultDisplayName)
}

func mustOwner(c *gin.Context) string {
	owner := c.GetString("owner")
	if owner == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "unauthorized")
	}
	return owner
}
