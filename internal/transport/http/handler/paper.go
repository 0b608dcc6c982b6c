package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paperlens/internal/app"
	"paperlens/internal/model"
	"paperlens/internal/transport/http/flash"
	"paperlens/internal/transport/http/response"
)

const (
	msgNoFile      = "No file selected"
	msgNotPDF      = "Please upload a PDF file"
	msgTooLarge    = "File too large (max %d MB)"
	msgNoText      = "Could not extract text from PDF"
	msgUploaded    = "Paper uploaded and analyzed successfully!"
	msgNotFound    = "Paper not found"
	multipartSlack = 1 << 20
)

type PaperHandler struct {
	papers    *app.PaperService
	flash     flash.Store
	logger    *zap.Logger
	maxSizeMB int
}

// PaperListItem is one entry of /api/papers.
type PaperListItem struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Authors    string    `json:"authors"`
	Abstract   string    `json:"abstract"`
	Summary    string    `json:"summary"`
	UploadDate time.Time `json:"upload_date"`
}

// SearchResult is one entry of /search.
type SearchResult struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Abstract string `json:"abstract"`
	Summary  string `json:"summary"`
}

func NewPaperHandler(papers *app.PaperService, store flash.Store, logger *zap.Logger, maxSizeMB int) *PaperHandler {
	return &PaperHandler{
		papers:    papers,
		flash:     store,
		logger:    logger,
		maxSizeMB: maxSizeMB,
	}
}

func (h *PaperHandler) Index(c *gin.Context) {
	papers, err := h.papers.List()
	if err != nil {
		h.fail(c, "list papers failed", err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Papers":   papers,
		"Messages": h.popFlash(c),
	})
}

func (h *PaperHandler) UploadForm(c *gin.Context) {
	c.HTML(http.StatusOK, "upload.html", gin.H{
		"Messages":  h.popFlash(c),
		"MaxSizeMB": h.maxSizeMB,
	})
}

func (h *PaperHandler) Upload(c *gin.Context) {
	maxBytes := int64(h.maxSizeMB) << 20
	if c.Request.ContentLength > maxBytes+multipartSlack {
		h.redirectWithFlash(c, "/upload", fmt.Sprintf(msgTooLarge, h.maxSizeMB))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartSlack)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.redirectWithFlash(c, "/upload", fmt.Sprintf(msgTooLarge, h.maxSizeMB))
			return
		}
		h.redirectWithFlash(c, "/upload", msgNoFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, "open uploaded file failed", err)
		return
	}
	defer file.Close()

	paper, err := h.papers.Upload(c.Request.Context(), app.UploadInput{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Body:     file,
	})
	switch {
	case err == nil:
	case errors.Is(err, app.ErrNoFile):
		h.redirectWithFlash(c, "/upload", msgNoFile)
		return
	case errors.Is(err, app.ErrNotPDF):
		h.redirectWithFlash(c, "/upload", msgNotPDF)
		return
	case errors.Is(err, app.ErrFileTooLarge):
		h.redirectWithFlash(c, "/upload", fmt.Sprintf(msgTooLarge, h.maxSizeMB))
		return
	case errors.Is(err, app.ErrNoExtractableText):
		h.redirectWithFlash(c, "/upload", msgNoText)
		return
	default:
		h.fail(c, "process upload failed", err)
		return
	}

	h.logger.Info("upload processed", zap.Uint("paper_id", paper.ID), zap.String("title", paper.Title))
	h.redirectWithFlash(c, "/", msgUploaded)
}

func (h *PaperHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Page(c, http.StatusNotFound, "The requested page was not found.")
		return
	}

	paper, err := h.papers.Get(uint(id))
	if err != nil {
		if errors.Is(err, app.ErrPaperNotFound) || errors.Is(err, app.ErrInvalidInput) {
			h.redirectWithFlash(c, "/", msgNotFound)
			return
		}
		h.fail(c, "get paper failed", err)
		return
	}

	c.HTML(http.StatusOK, "paper_detail.html", gin.H{"Paper": paper})
}

func (h *PaperHandler) Search(c *gin.Context) {
	papers, err := h.papers.Search(c.Query("q"))
	if err != nil {
		h.logger.Error("search papers failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search papers failed")
		return
	}

	results := make([]SearchResult, 0, len(papers))
	for _, p := range papers {
		results = append(results, SearchResult{
			ID:       p.ID,
			Title:    p.Title,
			Authors:  p.Authors,
			Abstract: p.Abstract,
			Summary:  p.Summary,
		})
	}
	c.JSON(http.StatusOK, results)
}

func (h *PaperHandler) ListAPI(c *gin.Context) {
	papers, err := h.papers.List()
	if err != nil {
		h.logger.Error("list papers failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list papers failed")
		return
	}
	c.JSON(http.StatusOK, toListItems(papers))
}

func toListItems(papers []model.Paper) []PaperListItem {
	items := make([]PaperListItem, 0, len(papers))
	for _, p := range papers {
		items = append(items, PaperListItem{
			ID:         p.ID,
			Title:      p.Title,
			Authors:    p.Authors,
			Abstract:   p.Abstract,
			Summary:    p.Summary,
			UploadDate: p.UploadDate,
		})
	}
	return items
}

func (h *PaperHandler) redirectWithFlash(c *gin.Context, location, message string) {
	if err := h.flash.Add(c, message); err != nil {
		h.logger.Warn("store flash message failed", zap.Error(err))
	}
	c.Redirect(http.StatusFound, location)
}

func (h *PaperHandler) popFlash(c *gin.Context) []string {
	messages, err := h.flash.Pop(c)
	if err != nil {
		h.logger.Warn("read flash messages failed", zap.Error(err))
		return nil
	}
	return messages
}

func (h *PaperHandler) fail(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	_ = c.Error(err)
	response.Page(c, http.StatusInternalServerError, "Something went wrong while handling your request.")
}
