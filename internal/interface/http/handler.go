package http

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushelp/faqbot/internal/domain/faq"
	apperrors "github.com/campushelp/faqbot/pkg/errors"
)

// Handler wires the HTTP transport to the FAQ domain service.
type Handler struct {
	faqSvc faq.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc: faqSvc,
		logger: logger.With("component", "http.handler"),
	}
}

// Ask answers a free-text question against the FAQ knowledge base.
func (h *Handler) Ask(c *gin.Context) {
	var req faq.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.faqSvc.Ask(c.Request.Context(), req.Question)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "ask_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListFAQs returns every record with its current position.
func (h *Handler) ListFAQs(c *gin.Context) {
	records := h.faqSvc.List(c.Request.Context())
	items := make([]listItem, 0, len(records))
	for i, rec := range records {
		items = append(items, listItem{
			Position: i,
			Question: rec.Question,
			Answer:   rec.Answer,
			Category: rec.Category,
		})
	}
	c.JSON(http.StatusOK, gin.H{"faqs": items})
}

// Trending returns the most frequently asked questions.
func (h *Handler) Trending(c *gin.Context) {
	top, err := h.faqSvc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, domainHTTPError(err, "trending_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"trending": top})
}

// Feedback records user feedback on a served answer.
func (h *Handler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.faqSvc.Feedback(c.Request.Context(), req.Question, req.Answer, req.Feedback); err != nil {
		abortWithError(c, domainHTTPError(err, "feedback_failed"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}

// AddFAQ appends a new record.
func (h *Handler) AddFAQ(c *gin.Context) {
	var req mutateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	position, err := h.faqSvc.Add(c.Request.Context(), req.Question, req.Answer, req.Category)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "add_failed"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"position": position})
}

// EditFAQ overwrites the record at the given position.
func (h *Handler) EditFAQ(c *gin.Context) {
	position, ok := parsePosition(c)
	if !ok {
		return
	}
	var req mutateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.faqSvc.Edit(c.Request.Context(), position, req.Question, req.Answer, req.Category); err != nil {
		abortWithError(c, domainHTTPError(err, "edit_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": position})
}

// DeleteFAQ removes the record at the given position. Later positions shift
// down by one, so clients must re-fetch the list afterwards.
func (h *Handler) DeleteFAQ(c *gin.Context) {
	position, ok := parsePosition(c)
	if !ok {
		return
	}
	if err := h.faqSvc.Delete(c.Request.Context(), position); err != nil {
		abortWithError(c, domainHTTPError(err, "delete_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportFAQs extracts question/answer pairs from an uploaded document.
func (h *Handler) ImportFAQs(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "missing file field", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "cannot open uploaded file", err))
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "cannot read uploaded file", err))
		return
	}

	result, err := h.faqSvc.ImportDocument(c.Request.Context(), fileHeader.Filename, content)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "import_failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

type listItem struct {
	Position int    `json:"position"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
}

type mutateFAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

type feedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
}

func parsePosition(c *gin.Context) (int, bool) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "position must be an integer", err))
		return 0, false
	}
	return position, true
}

// domainHTTPError maps domain error kinds onto HTTP statuses.
func domainHTTPError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch apperrors.Code(err) {
	case "invalid_input":
		status = http.StatusBadRequest
		code = "invalid_request"
	case "duplicate_question":
		status = http.StatusConflict
		code = "duplicate_question"
	case "index_out_of_range":
		status = http.StatusNotFound
		code = "faq_not_found"
	case "unsupported_document":
		status = http.StatusUnsupportedMediaType
		code = "unsupported_document"
	case "provider_unavailable", "degenerate_vector":
		status = http.StatusBadGateway
		code = "provider_unavailable"
	case "persistence_failure":
		status = http.StatusInternalServerError
		code = "persistence_failure"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
