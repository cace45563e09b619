package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/kado/internal/pkg/errcode"
	"github.com/xxxsen/kado/internal/pkg/response"
	"github.com/xxxsen/kado/internal/service"
)

type AuthHandler struct {
	staff *service.StaffService
}

func NewAuthHandler(staff *service.StaffService) *AuthHandler {
	return &AuthHandler{staff: staff}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	staff, token, err := h.staff.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "staff": staff})
}
