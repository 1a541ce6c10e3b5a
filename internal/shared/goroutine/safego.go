// Package goroutine launches fire-and-forget work with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/membergate/membergate/internal/shared/logger"
)

// SafeGo runs fn in its own goroutine. A panic is logged with its stack
// instead of taking the process down. name identifies the task in that log
// line, e.g. "card-updated-notification".
//
// fn owns its own timeout: the request context is usually gone by the time
// it runs, so callers derive one from context.Background.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("background task panicked",
					"task", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
