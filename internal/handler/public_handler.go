package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/kado/internal/pagecache"
	"github.com/xxxsen/kado/internal/pkg/response"
	"github.com/xxxsen/kado/internal/revision"
)

// PublicHandler serves active entries by uri without authentication.
type PublicHandler struct {
	entries *revision.Service
	cache   *pagecache.Cache
}

func NewPublicHandler(entries *revision.Service, cache *pagecache.Cache) *PublicHandler {
	return &PublicHandler{entries: entries, cache: cache}
}

func (h *PublicHandler) Get(c *gin.Context) {
	kind := h.entries.Kind()
	uri := c.Param("uri")
	if entry, ok := h.cache.Get(kind, uri); ok {
		response.Success(c, entry)
		return
	}
	gen := h.cache.Generation(kind)
	entry, err := h.entries.GetByURI(c.Request.Context(), uri)
	if err != nil {
		handleError(c, err)
		return
	}
	h.cache.Set(kind, uri, gen, entry)
	response.Success(c, entry)
}
