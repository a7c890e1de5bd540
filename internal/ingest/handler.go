package ingest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"loanfile-backend/internal/shared/server/respond"
	"loanfile-backend/internal/validate"
)

// Handler exposes the upload queue over HTTP.
type Handler struct {
	Ctl *Controller
}

// NewHandler constructs a Handler.
func NewHandler(ctl *Controller) *Handler {
	return &Handler{Ctl: ctl}
}

// RegisterRoutes attaches queue routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/loans/:loanId/documents", h.upload)
	rg.GET("/uploads", h.list)
	rg.GET("/uploads/constraints", h.constraints)
	rg.GET("/uploads/:id", h.get)
	rg.POST("/uploads/:id/retry", h.retry)
	rg.DELETE("/uploads/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	loanID := strings.TrimSpace(c.Param("loanId"))
	c.Set("loanId", loanID)
	if loanID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "loanId is required", nil)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart form", nil)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one file is required", nil)
		return
	}

	in := SubmitInput{
		LoanID:      loanID,
		ConditionID: strings.TrimSpace(c.PostForm("conditionId")),
		CreatedBy:   strings.TrimSpace(c.GetHeader("X-Uploaded-By")),
	}
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("failed to read file %q", fh.Filename), nil)
			return
		}
		in.Files = append(in.Files, FileInput{
			Name:      fh.Filename,
			MimeType:  fh.Header.Get("Content-Type"),
			SizeBytes: fh.Size,
			Data:      data,
		})
	}

	items := h.Ctl.Submit(in)
	respond.JSON(c, http.StatusAccepted, gin.H{"items": toItemResponses(items)})
}

// readFile buffers an uploaded part. Files past the validation limit are not
// buffered; the pipeline rejects them from the declared size alone.
func readFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > validate.MaxFileSize {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, validate.MaxFileSize+1))
}

func (h *Handler) list(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"items": toItemResponses(h.Ctl.Snapshot())})
}

func (h *Handler) constraints(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{
		"maxFileSize":   validate.MaxFileSize,
		"acceptedTypes": validate.AllowedTypes(),
	})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("uploadId", id)

	item, err := h.Ctl.Get(id)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "upload item not found", nil)
		return
	}
	respond.JSON(c, http.StatusOK, toItemResponse(item))
}

func (h *Handler) retry(c *gin.Context) {
	id := c.Param("id")
	c.Set("uploadId", id)

	item, err := h.Ctl.Retry(id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "upload item not found", nil)
		case errors.Is(err, ErrNotRetryable):
			respond.Error(c, http.StatusConflict, "conflict", "only failed uploads can be retried", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to retry upload", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toItemResponse(item))
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	c.Set("uploadId", id)

	if err := h.Ctl.Remove(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "upload item not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to remove upload", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"removed": true})
}
