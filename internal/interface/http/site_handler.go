package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/application"
	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/interface/middleware"
	"github.com/oksasatya/portofolio/pkg/response"
	"github.com/oksasatya/portofolio/pkg/validation"
)

type SiteReader interface {
	Landing(ctx context.Context) (*application.Landing, error)
	Gallery(ctx context.Context, q application.GalleryQuery) (*application.Gallery, error)
	Project(ctx context.Context, id string) (*entity.Project, error)
	Profile(ctx context.Context) (*entity.Profile, error)
}

type ContactSubmitter interface {
	Submit(ctx context.Context, in application.ContactInput, locale string) (*entity.ContactMessage, error)
}

// SiteHandler serves the public pages.
type SiteHandler struct {
	Site    SiteReader
	Contact ContactSubmitter
	Logger  *logrus.Logger
}

func NewSiteHandler(site SiteReader, contact ContactSubmitter, logger *logrus.Logger) *SiteHandler {
	return &SiteHandler{Site: site, Contact: contact, Logger: logger}
}

func localeMeta(lang string) map[string]any { return map[string]any{"locale": lang} }

// Landing GET /
func (h *SiteHandler) Landing(c *gin.Context) {
	lang := middleware.LocaleOf(c)
	l, err := h.Site.Landing(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err, "load", "profile")
		return
	}
	response.Success(c, http.StatusOK, newLandingView(l, lang), "landing", localeMeta(lang))
}

type galleryQuery struct {
	Q        string `form:"q" binding:"max=100"`
	Category string `form:"category" binding:"max=60"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
}

// Gallery GET /portofolio?q=&category=&page=&limit=
func (h *SiteHandler) Gallery(c *gin.Context) {
	var q galleryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	lang := middleware.LocaleOf(c)
	g, err := h.Site.Gallery(c.Request.Context(), application.GalleryQuery{
		Query: q.Q, Category: q.Category, Page: q.Page, Limit: q.Limit,
	})
	if err != nil {
		fail(c, h.Logger, err, "load", "projects")
		return
	}
	response.Success(c, http.StatusOK, views(g.Items, lang, newProjectView), "projects", map[string]any{
		"page":   g.Page,
		"limit":  g.Limit,
		"total":  g.Total,
		"locale": lang,
	})
}

// Project GET /portofolio/:id
func (h *SiteHandler) Project(c *gin.Context) {
	lang := middleware.LocaleOf(c)
	p, err := h.Site.Project(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err, "load", "project")
		return
	}
	response.Success(c, http.StatusOK, newProjectView(*p, lang), "project", localeMeta(lang))
}

// ContactPage GET /kontak
func (h *SiteHandler) ContactPage(c *gin.Context) {
	lang := middleware.LocaleOf(c)
	p, err := h.Site.Profile(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err, "load", "profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"full_name": p.FullName,
		"email":     p.Email,
		"phone":     p.Phone,
		"location":  p.Location,
		"socials":   p.Socials,
	}, "contact", localeMeta(lang))
}

// SubmitContact POST /kontak {name,email,subject,message}
func (h *SiteHandler) SubmitContact(c *gin.Context) {
	var in application.ContactInput
	if !bind(c, &in) {
		return
	}
	m, err := h.Contact.Submit(c.Request.Context(), in, middleware.LocaleOf(c))
	if err != nil {
		fail(c, h.Logger, err, "send", "message")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": m.ID, "created_at": m.CreatedAt}, "message sent", nil)
}
