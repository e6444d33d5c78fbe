package actionlog

import (
	"context"

	"family-dues-go/internal/domain/access"
)

// Recorder wraps a business operation in an action log that starts PENDING
// and ends SUCCESS or ERROR with the operation's outcome.
type Recorder interface {
	Track(ctx context.Context, actionType ActionType, actor access.Actor, extra Extra, op func(ctx context.Context) (Metadata, error)) error
}

var _ Recorder = (*Service)(nil)

// Track runs op between Start and MarkSuccess/MarkError. The operation's
// error is returned unchanged. A failure to finalize the log after op
// succeeded is logged, not returned: the business change already happened.
func (s *Service) Track(ctx context.Context, actionType ActionType, actor access.Actor, extra Extra, op func(ctx context.Context) (Metadata, error)) error {
	entry, err := s.Start(ctx, actionType, actor, extra)
	if err != nil {
		return err
	}

	metadata, opErr := op(ctx)
	if opErr != nil {
		if _, err := s.MarkError(ctx, entry.ID, opErr); err != nil {
			s.log.InternalError("actionlog.track: mark error failed", err, "log_id", entry.ID, "action_type", actionType)
		}
		return opErr
	}

	if _, err := s.MarkSuccess(ctx, entry.ID, nil, metadata); err != nil {
		s.log.InternalError("actionlog.track: mark success failed", err, "log_id", entry.ID, "action_type", actionType)
	}
	return nil
}
