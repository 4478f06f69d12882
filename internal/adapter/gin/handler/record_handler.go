package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/adapter/gin/middleware"
	"book-catalog/internal/usecase/record"
)

// RecordHandler handles HTTP requests for book records
type RecordHandler struct {
	uc  record.Service
	log *zap.Logger
}

// NewRecordHandler creates a new RecordHandler instance
func NewRecordHandler(uc record.Service, log *zap.Logger) *RecordHandler {
	return &RecordHandler{uc: uc, log: log}
}

// CreateRecordRequest represents the HTTP request body for adding a book
type CreateRecordRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// ListRecords handles GET /records
func (h *RecordHandler) ListRecords(c *gin.Context) {
	records, err := h.uc.List(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	resp := make([]RecordResponse, len(records))
	for i := range records {
		resp[i] = toRecordResponse(&records[i])
	}
	c.JSON(http.StatusOK, resp)
}

// CreateRecord handles POST /records
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}

	rec, err := h.uc.Create(c.Request.Context(), middleware.IdentityFrom(c), record.CreateRecordRequest{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, toRecordResponse(rec))
}

// DeleteRecord handles DELETE /records/:id
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	resp, err := h.uc.Delete(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: resp.Message, ID: resp.ID})
}
