package worker

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/pkg/helpers"
	"github.com/oksasatya/portofolio/pkg/mailer"
	mailtpl "github.com/oksasatya/portofolio/pkg/mailer/templates"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, replyTo, subject, text, html string) error
}

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	Drop
	Retry
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Drop:
		return "drop"
	default:
		return "retry"
	}
}

const defaultSendTimeout = 15 * time.Second

// EmailProcessor turns queued mailer.EmailJob payloads into sent mail.
type EmailProcessor struct {
	Sender  Sender
	Geo     mailtpl.GeoResolver // optional
	Timeout time.Duration
	Logger  *logrus.Logger
}

func (p *EmailProcessor) log() *logrus.Logger {
	if p.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.Logger
}

// Process handles one message body. Malformed jobs and template failures are
// dropped since retrying cannot fix them; send failures are retried.
func (p *EmailProcessor) Process(ctx context.Context, body []byte) Outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogError(p.log(), "bad email job", err, nil)
		return Drop
	}
	if !job.Valid() {
		p.log().WithField("template", job.Template).Warn("email job missing recipient or content")
		return Drop
	}
	helpers.EnsureRecipientAndEmail(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		if p.Geo != nil {
			mailtpl.FillLocation(ctx, p.Geo, job.Data)
		}
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			helpers.LogError(p.log(), "render email", err, logrus.Fields{"template": job.Template})
			return Drop
		}
		subject, text, html = s, t, h
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.Sender.Send(c, job.To, job.ReplyTo, subject, text, html); err != nil {
		helpers.LogError(p.log(), "send email", err, logrus.Fields{"to": job.To})
		return Retry
	}
	return Ack
}

// Consume drains msgs until the channel closes or ctx is done. A delivery
// that already came back once is dropped instead of requeued again.
func (p *EmailProcessor) Consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				return
			}
			p.settle(d, p.Process(ctx, d.Body))
		}
	}
}

func (p *EmailProcessor) settle(d amqp.Delivery, out Outcome) {
	var err error
	switch {
	case out == Ack:
		err = d.Ack(false)
	case out == Retry && !d.Redelivered:
		err = d.Nack(false, true)
	default:
		if out == Retry {
			p.log().WithField("delivery_tag", d.DeliveryTag).Warn("email send failed twice, dropping")
		}
		err = d.Nack(false, false)
	}
	if err != nil {
		helpers.LogError(p.log(), "settle delivery", err, logrus.Fields{"outcome": out.String()})
	}
}
