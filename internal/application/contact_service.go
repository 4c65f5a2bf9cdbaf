package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/config"
	"github.com/oksasatya/portofolio/internal/domain/entity"
	repo "github.com/oksasatya/portofolio/internal/domain/repository"
	"github.com/oksasatya/portofolio/internal/metrics"
	"github.com/oksasatya/portofolio/pkg/mailer"
	"github.com/oksasatya/portofolio/pkg/mailer/templates"
	"github.com/oksasatya/portofolio/pkg/sanitize"
)

// Publisher puts a JSON job on the mail queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// OwnerResolver resolves the site owner that receives contact messages.
type OwnerResolver interface {
	OwnerID(ctx context.Context) (string, error)
}

type ContactService struct {
	Messages  repo.ContactRepository
	Owners    OwnerResolver
	Publisher Publisher
	Cfg       *config.Config
	Logger    *logrus.Logger
	audit     auditor
}

func NewContactService(messages repo.ContactRepository, owners OwnerResolver, pub Publisher, cfg *config.Config,
	audit repo.AuditRepository, rec metrics.WriteRecorder, logger *logrus.Logger) *ContactService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ContactService{
		Messages:  messages,
		Owners:    owners,
		Publisher: pub,
		Cfg:       cfg,
		Logger:    logger,
		audit:     auditor{repo: audit, metrics: rec, logger: logger},
	}
}

// Submit stores a guest message for the site owner and queues a notification
// email when mail sending is enabled. Queue failures are logged; the stored
// message is still returned.
func (s *ContactService) Submit(ctx context.Context, in ContactInput, locale string) (*entity.ContactMessage, error) {
	owner, err := s.Owners.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	ci := ClientFrom(ctx)
	m := &entity.ContactMessage{
		OwnerID:   owner,
		Name:      sanitize.Plain(in.Name),
		Email:     in.Email,
		Subject:   sanitize.Plain(in.Subject),
		Message:   sanitize.Plain(in.Message),
		Locale:    locale,
		IP:        ci.IP,
		UserAgent: ci.UserAgent,
	}
	if m.Name == "" {
		return nil, invalid("name", "is required")
	}
	if m.Message == "" {
		return nil, invalid("message", "is required")
	}
	if err := s.Messages.Create(ctx, m); err != nil {
		return nil, err
	}
	s.notify(ctx, m)
	return m, nil
}

func (s *ContactService) notify(ctx context.Context, m *entity.ContactMessage) {
	if s.Publisher == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled || s.Cfg.ContactRecipient == "" {
		return
	}
	job := mailer.EmailJob{
		To:       s.Cfg.ContactRecipient,
		ReplyTo:  m.Email,
		Template: templates.ContactMessage,
		Data: templates.NewContactMessageData(s.Cfg, m.Name, m.Email, m.Subject, m.Message,
			templates.WithIP(m.IP),
			templates.WithUserAgent(m.UserAgent),
			templates.WithLocale(m.Locale),
			templates.WithTime(time.Now()),
		),
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("message_id", m.ID).Warn("publish contact email failed")
	}
}

func (s *ContactService) List(ctx context.Context, ownerID string) ([]entity.ContactMessage, error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	return s.Messages.List(ctx, ownerID)
}

func (s *ContactService) MarkRead(ctx context.Context, ownerID, id string) (err error) {
	if err := scoped(ownerID, id); err != nil {
		return err
	}
	defer func() { s.audit.write(ctx, ownerID, "message", "read", id, err) }()
	return storeErr(s.Messages.MarkRead(ctx, ownerID, id))
}

func (s *ContactService) Delete(ctx context.Context, ownerID, id string) (err error) {
	if err := scoped(ownerID, id); err != nil {
		return err
	}
	defer func() { s.audit.write(ctx, ownerID, "message", opDelete, id, err) }()
	return storeErr(s.Messages.Delete(ctx, ownerID, id))
}

// Reply queues a plain-text answer to the sender of message id and marks the
// message read. The owner's contact address is used as Reply-To.
func (s *ContactService) Reply(ctx context.Context, ownerID, id string, in ReplyInput) (err error) {
	if err := scoped(ownerID, id); err != nil {
		return err
	}
	if s.Publisher == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return ErrMailDisabled
	}
	m, err := s.Messages.Get(ctx, ownerID, id)
	if err != nil {
		return storeErr(err)
	}
	defer func() { s.audit.write(ctx, ownerID, "message", "reply", id, err) }()

	subject, body := sanitize.Plain(in.Subject), sanitize.Plain(in.Message)
	if subject == "" {
		return invalid("subject", "is required")
	}
	if body == "" {
		return invalid("message", "is required")
	}
	job := mailer.EmailJob{To: m.Email, ReplyTo: s.Cfg.ContactRecipient, Subject: subject, Text: body}
	if err = s.Publisher.PublishJSON(ctx, job); err != nil {
		return err
	}
	if !m.Read {
		if rErr := s.Messages.MarkRead(ctx, ownerID, id); rErr != nil {
			s.Logger.WithError(rErr).WithField("message_id", id).Warn("mark replied message read failed")
		}
	}
	return nil
}
