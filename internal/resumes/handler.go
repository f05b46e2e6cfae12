package resumes

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careergap/internal/shared/server/middleware"
	"careergap/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches résumé routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.POST("/resume/upload", h.upload)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.DELETE("/resumes/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	// Leave room for the multipart envelope around the file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeTooLarge, ErrTooLarge.Error(), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "No resume file provided", nil)
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeTooLarge, ErrTooLarge.Error(), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}

	res, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		UserID:   userID,
		FileName: fileHeader.Filename,
		Title:    c.PostForm("title"),
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "No file selected", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeTooLarge, err.Error(), nil)
		case errors.Is(err, ErrUnsupported):
			respond.Error(c, http.StatusUnsupportedMediaType, respond.CodeUnsupported, "Only PDF files are supported. Please upload a PDF file.", nil)
		case errors.Is(err, ErrNoText):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, ErrNoText.Error(), nil)
		default:
			respond.Internal(c, err)
		}
		return
	}

	respond.Created(c, gin.H{
		"resumeId":              res.ID,
		"title":                 res.Title,
		"filename":              fileHeader.Filename,
		"extracted_text_length": len(res.OriginalText),
		"parsed_data":           res.ParsedData,
	})
}

func (h *Handler) list(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}
	list, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		respond.Internal(c, err)
		return
	}
	out := make([]Summary, 0, len(list))
	for _, r := range list {
		out = append(out, r.Summary())
	}
	respond.OK(c, gin.H{"resumes": out})
}

func (h *Handler) get(c *gin.Context) {
	res, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "resume not found", nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "resume not found", nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
