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

// Resource serves the owner-scoped CRUD routes of one admin entity. The
// owner always comes from the session, never from the payload.
type Resource[T, In any] struct {
	Entity string
	Plural string
	Logger *logrus.Logger

	list   func(ctx context.Context, ownerID string) ([]T, error)
	get    func(ctx context.Context, ownerID, id string) (*T, error)
	create func(ctx context.Context, ownerID string, in In) (*T, error)
	update func(ctx context.Context, ownerID, id string, in In) (*T, error)
	remove func(ctx context.Context, ownerID, id string) error
}

// Register mounts GET/POST on base and GET/PUT/DELETE on base/:id.
func (r *Resource[T, In]) Register(rg *gin.RouterGroup, base string) {
	rg.GET(base, r.List)
	rg.POST(base, r.Create)
	rg.GET(base+"/:id", r.Get)
	rg.PUT(base+"/:id", r.Update)
	rg.DELETE(base+"/:id", r.Delete)
}

func (r *Resource[T, In]) List(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	items, err := r.list(c.Request.Context(), owner)
	if err != nil {
		fail(c, r.Logger, err, "load", r.Plural)
		return
	}
	response.Success(c, http.StatusOK, items, r.Plural, map[string]any{"total": len(items)})
}

func (r *Resource[T, In]) Get(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	v, err := r.get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		fail(c, r.Logger, err, "load", r.Entity)
		return
	}
	response.Success(c, http.StatusOK, v, r.Entity, nil)
}

func (r *Resource[T, In]) Create(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	var in In
	if !bind(c, &in) {
		return
	}
	v, err := r.create(c.Request.Context(), owner, in)
	if err != nil {
		fail(c, r.Logger, err, "create", r.Entity)
		return
	}
	response.Success(c, http.StatusCreated, v, r.Entity+" created", nil)
}

func (r *Resource[T, In]) Update(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	var in In
	if !bind(c, &in) {
		return
	}
	v, err := r.update(c.Request.Context(), owner, c.Param("id"), in)
	if err != nil {
		fail(c, r.Logger, err, "update", r.Entity)
		return
	}
	response.Success(c, http.StatusOK, v, r.Entity+" updated", nil)
}

func (r *Resource[T, In]) Delete(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := r.remove(c.Request.Context(), owner, id); err != nil {
		fail(c, r.Logger, err, "delete", r.Entity)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id, "deleted": true}, r.Entity+" deleted", nil)
}

// PortfolioHandler groups the admin resources backed by PortfolioService.
type PortfolioHandler struct {
	Projects     *Resource[entity.Project, application.ProjectInput]
	Certificates *Resource[entity.Certificate, application.CertificateInput]
	Education    *Resource[entity.Education, application.EducationInput]
	Experience   *Resource[entity.Experience, application.ExperienceInput]
}

func NewPortfolioHandler(svc *application.PortfolioService, logger *logrus.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		Projects: &Resource[entity.Project, application.ProjectInput]{
			Entity: "project", Plural: "projects", Logger: logger,
			list: svc.ListProjects, get: svc.GetProject, create: svc.CreateProject,
			update: svc.UpdateProject, remove: svc.DeleteProject,
		},
		Certificates: &Resource[entity.Certificate, application.CertificateInput]{
			Entity: "certificate", Plural: "certificates", Logger: logger,
			list: svc.ListCertificates, get: svc.GetCertificate, create: svc.CreateCertificate,
			update: svc.UpdateCertificate, remove: svc.DeleteCertificate,
		},
		Education: &Resource[entity.Education, application.EducationInput]{
			Entity: "education", Plural: "education", Logger: logger,
			list: svc.ListEducation, get: svc.GetEducation, create: svc.CreateEducation,
			update: svc.UpdateEducation, remove: svc.DeleteEducation,
		},
		Experience: &Resource[entity.Experience, application.ExperienceInput]{
			Entity: "experience", Plural: "experience", Logger: logger,
			list: svc.ListExperience, get: svc.GetExperience, create: svc.CreateExperience,
			update: svc.UpdateExperience, remove: svc.DeleteExperience,
		},
	}
}

// Register mounts the admin resource routes under their Indonesian paths.
func (h *PortfolioHandler) Register(rg *gin.RouterGroup) {
	h.Projects.Register(rg, "/portofolio")
	h.Certificates.Register(rg, "/sertifikat")
	h.Education.Register(rg, "/pendidikan")
	h.Experience.Register(rg, "/pengalaman")
}
