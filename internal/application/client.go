package application

import "context"

// ClientInfo describes the caller of a request for audit entries.
type ClientInfo struct {
	IP        string
	UserAgent string
	Email     string
}

type clientKey struct{}

func WithClient(ctx context.Context, ci ClientInfo) context.Context {
	return context.WithValue(ctx, clientKey{}, ci)
}

// ClientFrom returns the caller attached by WithClient, or the zero value.
func ClientFrom(ctx context.Context) ClientInfo {
	ci, _ := ctx.Value(clientKey{}).(ClientInfo)
	return ci
}

func withEmail(ctx context.Context, email string) context.Context {
	ci := ClientFrom(ctx)
	ci.Email = email
	return WithClient(ctx, ci)
}
