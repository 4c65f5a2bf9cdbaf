package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	repo "github.com/oksasatya/portofolio/internal/domain/repository"
	"github.com/oksasatya/portofolio/internal/metrics"
)

const (
	ActionLoginSuccess = "login_success"
	ActionLoginFailed  = "login_failed"
	ActionLogout       = "logout"
)

// auditor writes audit entries and write metrics. Audit failures are logged
// and never fail the caller.
type auditor struct {
	repo    repo.AuditRepository
	metrics metrics.WriteRecorder
	logger  *logrus.Logger
}

func (a auditor) log(ctx context.Context, userID, action string, meta map[string]any) {
	if a.repo == nil {
		return
	}
	ci := ClientFrom(ctx)
	e := entity.AuditEntry{
		UserID:    userID,
		Email:     ci.Email,
		Action:    action,
		IP:        ci.IP,
		UserAgent: ci.UserAgent,
		Metadata:  meta,
	}
	if err := a.repo.Insert(ctx, e); err != nil && a.logger != nil {
		a.logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}

// write records the outcome of an admin write and audits successes as
// "<entity>_<op>".
func (a auditor) write(ctx context.Context, ownerID, ent, op, id string, err error) {
	if a.metrics != nil {
		a.metrics.RecordWrite(ent, op, err)
	}
	if err != nil {
		var verr *ValidationError
		if a.logger != nil && !errors.Is(err, ErrNotFound) && !errors.As(err, &verr) {
			a.logger.WithError(err).WithFields(logrus.Fields{
				"entity":  ent,
				"op":      op,
				"id":      id,
				"user_id": ownerID,
			}).Error("admin write failed")
		}
		return
	}
	a.log(ctx, ownerID, ent+"_"+op, map[string]any{"id": id})
}
