package utils

import (
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorResponse converts a failure to the wire format `{"error": string}`.
// The underlying cause is logged server-side and, for unexpected
// failures, captured to Sentry. It is never echoed to the client.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	if err != nil {
		entry := logrus.WithFields(logrus.Fields{
			"status": status,
			"method": c.Method(),
			"path":   c.Path(),
		})
		if status >= fiber.StatusInternalServerError {
			entry.WithError(err).Error(message)
			sentry.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("endpoint", c.Path())
				scope.SetExtra("message", message)
				sentry.CaptureException(err)
			})
		} else {
			entry.WithError(err).Warn(message)
		}
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// LogEvent logs domain events with structured context and records them
// as Sentry breadcrumbs.
func LogEvent(eventType string, data map[string]interface{}) {
	entry := logrus.WithFields(logrus.Fields{
		"event_type": eventType,
	})
	for k, v := range data {
		entry = entry.WithField(k, v)
	}
	entry.Info("Event occurred")

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "info",
		Category:  eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// Pointer returns a pointer to the given value
func Pointer[T any](v T) *T {
	return &v
}

// ParseUint safely parses a string to uint
func ParseUint(s string) uint {
	i, _ := strconv.ParseUint(s, 10, 32)
	return uint(i)
}
