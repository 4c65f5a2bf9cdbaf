package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/application"
	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/pkg/response"
)

type MessageBox interface {
	List(ctx context.Context, ownerID string) ([]entity.ContactMessage, error)
	MarkRead(ctx context.Context, ownerID, id string) error
	Delete(ctx context.Context, ownerID, id string) error
	Reply(ctx context.Context, ownerID, id string, in application.ReplyInput) error
}

// MessageHandler serves the owner's contact inbox.
type MessageHandler struct {
	Messages MessageBox
	Logger   *logrus.Logger
}

func NewMessageHandler(messages MessageBox, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{Messages: messages, Logger: logger}
}

// List GET /admin/pesan
func (h *MessageHandler) List(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	items, err := h.Messages.List(c.Request.Context(), owner)
	if err != nil {
		fail(c, h.Logger, err, "load", "messages")
		return
	}
	unread := 0
	for _, m := range items {
		if !m.Read {
			unread++
		}
	}
	response.Success(c, http.StatusOK, items, "messages", map[string]any{"total": len(items), "unread": unread})
}

// MarkRead PUT /admin/pesan/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Messages.MarkRead(c.Request.Context(), owner, id); err != nil {
		fail(c, h.Logger, err, "update", "message")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id, "read": true}, "message marked as read", nil)
}

// Delete DELETE /admin/pesan/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Messages.Delete(c.Request.Context(), owner, id); err != nil {
		fail(c, h.Logger, err, "delete", "message")
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id, "deleted": true}, "message deleted", nil)
}

// Reply POST /admin/pesan/:id/balas {subject,message} queues an email to the
// sender. With mail sending off it answers 202 without enqueuing.
func (h *MessageHandler) Reply(c *gin.Context) {
	owner, ok := guard(c)
	if !ok {
		return
	}
	var in application.ReplyInput
	if !bind(c, &in) {
		return
	}
	err := h.Messages.Reply(c.Request.Context(), owner, c.Param("id"), in)
	if errors.Is(err, application.ErrMailDisabled) {
		response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": false, "disabled": true}, "email sending disabled", nil)
		return
	}
	if err != nil {
		fail(c, h.Logger, err, "reply to", "message")
		return
	}
	response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": true}, "reply enqueued", nil)
}
