package log

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// withError attaches err to the event. Errors that carry structured context
// (they implement zerolog.LogObjectMarshaler) are embedded, and a stack
// trace captured by cockroachdb/errors is emitted under StacktraceAttrKey.
func withError(event *zerolog.Event, err error) *zerolog.Event {
	event = event.Err(err)
	var m zerolog.LogObjectMarshaler
	if errors.As(err, &m) {
		event = event.Object("error_detail", m)
	}
	if stacktrace := extractStacktrace(err); stacktrace != "" {
		event = event.Str(StacktraceAttrKey, stacktrace)
	}
	return event
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
