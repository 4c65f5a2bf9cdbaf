package templates

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/portofolio/config"
)

type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithLocale(l string) Option     { return func(d *EmailData) { d.Locale = l } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func setLocation(d *EmailData, loc string) {
	if s := strings.TrimSpace(loc); s != "" {
		d.Location = s
	}
}

func WithLocation(loc string) Option {
	return func(d *EmailData) { setLocation(d, loc) }
}

func WithGeoFromIP(ctx context.Context, r GeoResolver, ip string) Option {
	return func(d *EmailData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			setLocation(d, FormatGeo(g))
		}
	}
}

// NewContactMessageData fills the site fields from cfg and the message fields
// from the submission.
func NewContactMessageData(cfg *config.Config, name, email, subject, message string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: cfg.ContactRecipient,
		Type:           ContactMessage,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		LogoURL:     cfg.LogoURL,
		SiteURL:     cfg.SiteURL,
		InboxURL:    strings.TrimRight(cfg.SiteURL, "/") + "/admin/pesan",

		Subject: subject,
		Message: message,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}

// FillLocation sets data["Location"] from data["IP"] when the job arrived
// without one. Lookup failures leave data untouched.
func FillLocation(ctx context.Context, r GeoResolver, data map[string]any) {
	if data == nil {
		return
	}
	if loc, _ := data["Location"].(string); strings.TrimSpace(loc) != "" {
		return
	}
	ip, _ := data["IP"].(string)
	var d EmailData
	WithGeoFromIP(ctx, r, ip)(&d)
	if d.Location != "" {
		data["Location"] = d.Location
	}
}
