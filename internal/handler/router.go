package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/kado/internal/middleware"
)

type RouterDeps struct {
	Auth           *AuthHandler
	Staff          *StaffHandler
	Entries        []*EntryHandler
	Public         []*PublicHandler
	JWTSecret      []byte
	LoginRateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/login", middleware.RateLimit(deps.LoginRateLimit), deps.Auth.Login)

	for _, h := range deps.Public {
		api.GET("/public/"+h.entries.Kind()+"/:uri", h.Get)
	}

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	for _, h := range deps.Entries {
		group := authGroup.Group("/" + h.Kind())
		group.GET("", h.List)
		group.POST("", h.Save)
		group.DELETE("", h.Remove)
		group.POST("/revert", h.Revert)
		group.GET("/revisions/:revision_id", h.GetRevision)
		group.GET("/:id", h.Get)
	}

	authGroup.GET("/staff", deps.Staff.List)
	authGroup.POST("/staff", deps.Staff.Create)
	authGroup.PUT("/staff/password", deps.Staff.ChangePassword)
	authGroup.DELETE("/staff", deps.Staff.Remove)
}
