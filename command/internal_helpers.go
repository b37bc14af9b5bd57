package command

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebook/activity"
	"github.com/goliatone/go-sitebook/pkg/types"
	"github.com/goliatone/go-sitebook/useractivity"
)

// Hooks are invoked after a command succeeds.
type Hooks struct {
	AfterActivity  func(context.Context, *activity.LogEntry)
	AfterReadState func(context.Context, *useractivity.UserActivity)
}

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func now(clock types.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now()
}

func requirePair(userID, projectID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUserIDRequired
	}
	if projectID == uuid.Nil {
		return ErrProjectIDRequired
	}
	return nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func emitActivityHook(ctx context.Context, hooks Hooks, entry *activity.LogEntry) {
	if hooks.AfterActivity == nil || entry == nil {
		return
	}
	hooks.AfterActivity(ctx, entry)
}

func emitReadStateHook(ctx context.Context, hooks Hooks, record *useractivity.UserActivity) {
	if hooks.AfterReadState == nil || record == nil {
		return
	}
	hooks.AfterReadState(ctx, record)
}
