package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/news-feed/app/feed"
	"github.com/lysyi3m/news-feed/app/session"
	"github.com/lysyi3m/news-feed/app/sources"
	"github.com/lysyi3m/news-feed/app/view"
)

func NewHandler(s SessionInterface, registry *sources.Registry, extractor ExtractorInterface, version string) *Handler {
	return &Handler{
		session:   s,
		registry:  registry,
		extractor: extractor,
		version:   version,
	}
}

func (h *Handler) ListArticles(c *gin.Context) {
	articles := h.session.Articles()

	c.Header("X-Feed-Articles", strconv.Itoa(len(articles)))
	c.JSON(http.StatusOK, listResponse{
		Policy:   h.session.Policy(),
		Total:    len(articles),
		Articles: view.NewSummaries(articles),
	})
}

func (h *Handler) GetArticle(c *gin.Context) {
	article, ok := h.session.Article(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, view.NewDetail(article))
}

func (h *Handler) GetArticleContent(c *gin.Context) {
	article, ok := h.session.Article(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if h.extractor == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Content extraction disabled"})
		return
	}

	page, err := h.extractor.Run(c.Request.Context(), article.URL)
	if err != nil {
		slog.Warn("Content extraction failed", "article", article.ID, "url", article.URL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Content extraction failed", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, contentResponse{
		ID:      article.ID,
		Title:   page.Title,
		Byline:  page.Byline,
		Excerpt: page.Excerpt,
		Text:    page.Text,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	if err := h.session.Refresh(c.Request.Context()); err != nil {
		slog.Error("Refresh failed", "error", err)
		c.JSON(errorStatus(err), gin.H{"error": "Refresh failed", "message": err.Error()})
		return
	}

	result := h.session.Result()
	c.JSON(http.StatusOK, refreshResponse{
		Status:       result.Status,
		TotalResults: result.TotalResults,
		Code:         result.Code,
		Message:      result.Message,
		Articles:     view.NewSummaries(h.session.Articles()),
	})
}

func (h *Handler) SetSortPolicy(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort policy", "message": err.Error()})
		return
	}

	h.session.SetSortPolicy(*req.Policy)

	c.JSON(http.StatusOK, listResponse{
		Policy:   h.session.Policy(),
		Total:    len(h.session.Articles()),
		Articles: view.NewSummaries(h.session.Articles()),
	})
}

func (h *Handler) ListSources(c *gin.Context) {
	endpoint := h.session.Endpoint()
	list := h.registry.GetSources()

	response := make([]sourceResponse, 0, len(list))
	for _, source := range list {
		response = append(response, sourceResponse{
			Name:     source.Name,
			Title:    source.Title,
			Format:   source.Format,
			Enabled:  source.Settings.Enabled,
			Selected: source.URL == endpoint,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": response,
		"total":   len(response),
	})
}

// SelectSource points the session at another source without fetching it.
func (h *Handler) SelectSource(c *gin.Context) {
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source name", "message": err.Error()})
		return
	}

	source, err := h.registry.GetSource(req.Name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found", "message": err.Error()})
		return
	}
	if !source.Settings.Enabled {
		c.JSON(http.StatusConflict, gin.H{"error": "Source is disabled"})
		return
	}

	h.session.SelectEndpoint(source.URL)
	slog.Info("Source selected", "source", source.Name)

	c.JSON(http.StatusOK, gin.H{"source": source.Name})
}

func (h *Handler) Events(c *gin.Context) {
	events, unsubscribe := h.session.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Kind), newEventPayload(event))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   h.version,
		"sources":   h.registry.GetSourceCount(),
		"articles":  len(h.session.Articles()),
		"policy":    h.session.Policy(),
	})
}

func newEventPayload(event session.Event) eventPayload {
	payload := eventPayload{
		Policy:   event.Policy,
		Endpoint: event.Endpoint,
	}
	if event.Articles != nil {
		payload.Articles = view.NewSummaries(event.Articles)
	}
	if event.Err != nil {
		payload.Error = event.Err.Error()
	}
	return payload
}

func errorStatus(err error) int {
	var transportErr *feed.TransportError
	var decodeErr *feed.DecodeError

	switch {
	case errors.Is(err, feed.ErrInvalidEndpoint):
		return http.StatusBadRequest
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	case errors.As(err, &decodeErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
