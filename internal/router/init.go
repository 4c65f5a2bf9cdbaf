package router

import (
	"github.com/oksasatya/portofolio/internal/application"
	"github.com/oksasatya/portofolio/internal/container"
	pginfra "github.com/oksasatya/portofolio/internal/infrastructure/postgres"
	"github.com/oksasatya/portofolio/internal/infrastructure/redisstore"
	handlers "github.com/oksasatya/portofolio/internal/interface/http"
	"github.com/oksasatya/portofolio/internal/router/modules"
)

// Services are the application services shared by the HTTP modules and the
// edge gate.
type Services struct {
	Auth      *application.AuthService
	Site      *application.SiteService
	Portfolio *application.PortfolioService
	Profile   *application.ProfileService
	Contact   *application.ContactService
	Upload    *application.UploadService
}

// BuildServices wires repositories and infra singletons from the container.
func BuildServices() *Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	rec := container.GetWriteRecorder()
	objects := container.GetObjects()
	index := container.GetProjectIndex()

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	projects := pginfra.NewProjectRepository(pool)
	certs := pginfra.NewCertificateRepository(pool)
	edus := pginfra.NewEducationRepository(pool)
	exps := pginfra.NewExperienceRepository(pool)
	contacts := pginfra.NewContactRepository(pool)
	audit := pginfra.NewAuditRepository(pool)
	sessions := redisstore.NewSessionStore(container.GetRedis(), cfg.SessionTTL, cfg.SessionRefreshGrace)

	site := application.NewSiteService(profiles, projects, certs, edus, exps, index, cfg.SiteOwnerID, logger)

	// a nil *RabbitPublisher must not become a non-nil interface
	var pub application.Publisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	return &Services{
		Auth:      application.NewAuthService(users, profiles, sessions, container.GetJWT(), audit, logger),
		Site:      site,
		Portfolio: application.NewPortfolioService(projects, certs, edus, exps, objects, index, audit, rec, logger),
		Profile:   application.NewProfileService(profiles, projects, certs, edus, exps, contacts, objects, audit, rec, logger),
		Contact:   application.NewContactService(contacts, site, pub, cfg, audit, rec, logger),
		Upload:    application.NewUploadService(objects, cfg.UploadMaxBytes, audit, rec, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, svc *Services) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	g := container.GetGate()

	r.Add(modules.NewSiteModule(handlers.NewSiteHandler(svc.Site, svc.Contact, logger)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, g, container.GetCookies(), logger)))
	r.Add(modules.NewAdminModule(
		g,
		handlers.NewProfileHandler(svc.Profile, logger),
		handlers.NewPortfolioHandler(svc.Portfolio, logger),
		handlers.NewMessageHandler(svc.Contact, logger),
		handlers.NewUploadHandler(svc.Upload, cfg.UploadMaxBytes, logger),
	))
	r.Add(modules.NewDebugModule(cfg.DebugMetricsEnabled, cfg.MetricsEnabled, container.GetGatherer()))
}
