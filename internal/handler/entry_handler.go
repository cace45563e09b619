package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/kado/internal/model"
	"github.com/xxxsen/kado/internal/pkg/errcode"
	"github.com/xxxsen/kado/internal/pkg/response"
	"github.com/xxxsen/kado/internal/revision"
)

type markdownRenderer interface {
	Render(markdown string) (string, error)
}

// EntryHandler serves the staff endpoints of one entry kind.
type EntryHandler struct {
	entries  *revision.Service
	renderer markdownRenderer
}

// NewEntryHandler builds the handler; renderer may be nil to store html only
// as submitted.
func NewEntryHandler(entries *revision.Service, renderer markdownRenderer) *EntryHandler {
	return &EntryHandler{entries: entries, renderer: renderer}
}

func (h *EntryHandler) Kind() string {
	return h.entries.Kind()
}

type saveEntryRequest struct {
	ID      int64   `json:"id"`
	Title   *string `json:"title"`
	URI     *string `json:"uri"`
	Active  *bool   `json:"active"`
	Content *string `json:"content"`
	HTML    *string `json:"html"`
}

type saveEntryResponse struct {
	*revision.SaveResult
	Message string `json:"message"`
}

func (h *EntryHandler) Save(c *gin.Context) {
	var req saveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	html := req.HTML
	if h.renderer != nil && req.Content != nil && req.HTML == nil {
		rendered, err := h.renderer.Render(*req.Content)
		if err != nil {
			handleError(c, err)
			return
		}
		html = &rendered
	}
	res, err := h.entries.Save(c.Request.Context(), req.ID, revision.SaveInput{
		Title:   req.Title,
		URI:     req.URI,
		Active:  req.Active,
		Content: req.Content,
		HTML:    html,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	verb := "saved"
	if res.IsNew {
		verb = "created"
	}
	response.Success(c, saveEntryResponse{
		SaveResult: res,
		Message:    titleKind(h.Kind()) + " entry " + verb,
	})
}

type revertRequest struct {
	EntryID    int64 `json:"entry_id"`
	RevisionID int64 `json:"revision_id"`
}

func (h *EntryHandler) Revert(c *gin.Context) {
	var req revertRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EntryID <= 0 || req.RevisionID <= 0 {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if _, err := h.entries.Revert(c.Request.Context(), req.EntryID, req.RevisionID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"status":  "ok",
		"message": titleKind(h.Kind()) + " reverted",
	})
}

func (h *EntryHandler) Get(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		response.Error(c, errcode.ErrInvalid, "invalid id")
		return
	}
	detail, err := h.entries.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *EntryHandler) GetRevision(c *gin.Context) {
	id, ok := parseID(c.Param("revision_id"))
	if !ok {
		response.Error(c, errcode.ErrInvalid, "invalid revision id")
		return
	}
	rev, err := h.entries.GetRevision(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, rev)
}

func (h *EntryHandler) List(c *gin.Context) {
	filter := model.EntryFilter{
		Query:   strings.TrimSpace(c.Query("q")),
		OrderBy: c.Query("order"),
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, errcode.ErrInvalid, "invalid active")
			return
		}
		filter.Active = &active
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(c, errcode.ErrInvalid, "invalid limit")
			return
		}
		filter.Limit = uint(limit)
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(c, errcode.ErrInvalid, "invalid offset")
			return
		}
		filter.Offset = uint(offset)
	}
	entries, err := h.entries.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, entries)
}

func (h *EntryHandler) Remove(c *gin.Context) {
	ids, err := bindRemoveIDs(c)
	if err != nil {
		handleError(c, err)
		return
	}
	removed, err := h.entries.Remove(c.Request.Context(), ids)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}
