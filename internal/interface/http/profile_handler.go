package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/application"
	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/pkg/response"
)

type ProfileEditor interface {
	Get(ctx context.Context, ownerID string) (*entity.Profile, error)
	Update(ctx context.Context, ownerID string, in application.ProfileInput) (*entity.Profile, error)
	Dashboard(ctx context.Context, ownerID string) (*application.Dashboard, error)
}

type ProfileHandler struct {
	Profiles ProfileEditor
	Logger   *logrus.Logger
}

func NewProfileHandler(profiles ProfileEditor, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Logger: logger}
}

// Dashboard GET /admin/dashboard
func (h *ProfileHandler) Dashboard(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	d, err := h.Profiles.Dashboard(c.Request.Context(), owner)
	if err != nil {
		fail(c, h.Logger, err, "load", "dashboard")
		return
	}
	response.Success(c, http.StatusOK, d, "dashboard", nil)
}

// Get GET /admin/profil
func (h *ProfileHandler) Get(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	p, err := h.Profiles.Get(c.Request.Context(), owner)
	if err != nil {
		fail(c, h.Logger, err, "load", "profile")
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

// Update PUT /admin/profil. The payload has no role field.
func (h *ProfileHandler) Update(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	var in application.ProfileInput
	if !bind(c, &in) {
		return
	}
	p, err := h.Profiles.Update(c.Request.Context(), owner, in)
	if err != nil {
		fail(c, h.Logger, err, "update", "profile")
		return
	}
	response.Success(c, http.StatusOK, p, "profile updated", nil)
}
