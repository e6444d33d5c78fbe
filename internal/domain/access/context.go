package access

import "context"

type contextKey int

const sessionUserKey contextKey = iota

func WithSessionUser(ctx context.Context, user SessionUser) context.Context {
	return context.WithValue(ctx, sessionUserKey, user)
}

func SessionUserFromContext(ctx context.Context) (*SessionUser, bool) {
	user, ok := ctx.Value(sessionUserKey).(SessionUser)
	if !ok || user.ID == "" {
		return nil, false
	}
	return &user, true
}
