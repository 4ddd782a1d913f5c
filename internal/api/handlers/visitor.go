package handlers

import "context"

type visitorKey struct{}

// WithVisitorID stores the anonymous visitor id used for favorites.
func WithVisitorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey{}, id)
}

func VisitorID(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey{}).(string)
	return id
}
