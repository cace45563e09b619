package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/kado/internal/pkg/errcode"
	"github.com/xxxsen/kado/internal/pkg/response"
	"github.com/xxxsen/kado/internal/service"
)

type StaffHandler struct {
	staff *service.StaffService
}

func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

func (h *StaffHandler) List(c *gin.Context) {
	items, err := h.staff.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

type createStaffRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	staff, err := h.staff.Create(c.Request.Context(), service.StaffCreateInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, staff)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *StaffHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.staff.ChangePassword(c.Request.Context(), getStaffID(c), req.OldPassword, req.NewPassword); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}

func (h *StaffHandler) Remove(c *gin.Context) {
	self := getStaffID(c)
	ids, err := bindRemoveIDs(c)
	if err != nil {
		handleError(c, err)
		return
	}
	kept := ids[:0]
	for _, id := range ids {
		if id != self {
			kept = append(kept, id)
		}
	}
	removed, err := h.staff.Remove(c.Request.Context(), kept)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}
