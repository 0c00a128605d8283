// Package reporter delivers application error events to the backend selected
// by an eventtarget.EventTarget.
package reporter

import (
	"context"
	"net/http"
	"time"

	"cloud.google.com/go/errorreporting"
	"cloud.google.com/go/logging"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/errbridge/errbridge/pkg/eventtarget"
)

// Event is a single application error to deliver.
type Event struct {
	// Error is the error being reported. Required unless Message is set.
	Error error
	// Message overrides Error's text when both are set.
	Message string
	// User optionally identifies the affected user.
	User string
	// Req is the request being handled when the error occurred, if any.
	Req *http.Request
}

// Seams over the concrete clients so tests can capture what gets sent.
type entryWriter interface {
	LogSync(ctx context.Context, e logging.Entry) error
}

type errorSender interface {
	ReportSync(ctx context.Context, e errorreporting.Entry) error
}

// Reporter sends events to the backend its target selects. Delivery is
// synchronous; batching, retries and transport stay inside the underlying
// clients.
type Reporter struct {
	target  *eventtarget.EventTarget
	logger  log.Logger
	metrics *Metrics

	service string
	version string

	write entryWriter
	send  errorSender
}

// Option customizes a Reporter.
type Option func(*Reporter)

// WithServiceContext sets the service name and version stamped onto log-based
// error events so Error Reporting groups them correctly.
func WithServiceContext(service, version string) Option {
	return func(r *Reporter) {
		r.service = service
		r.version = version
	}
}

// New wires a Reporter to the given target. reg may be nil to skip metric
// registration.
func New(target *eventtarget.EventTarget, l log.Logger, metrics *Metrics, opts ...Option) (*Reporter, error) {
	if target == nil {
		return nil, errors.New("nil event target")
	}
	if l == nil {
		l = log.NewNopLogger()
	}

	r := &Reporter{
		target:  target,
		logger:  log.With(l, "component", "reporter", "kind", target.Kind()),
		metrics: metrics,
	}
	if r.metrics == nil {
		r.metrics = NewMetrics(nil)
	}
	for _, opt := range opts {
		opt(r)
	}

	switch target.Kind() {
	case eventtarget.KindLogging:
		r.write = target.LoggingClient().Logger(
			target.LogName(),
			logging.CommonResource(target.MonitoredResource()),
		)
	case eventtarget.KindErrorReporting:
		r.send = target.ErrorReportingClient()
	default:
		return nil, errors.Errorf("unsupported event target kind %s", target.Kind())
	}
	return r, nil
}

// Report delivers one event and blocks until the backend acknowledges it.
func (r *Reporter) Report(ctx context.Context, ev Event) error {
	message := ev.Message
	if message == "" && ev.Error != nil {
		message = ev.Error.Error()
	}
	if message == "" {
		r.metrics.eventsTotal.WithLabelValues(outcomeDropped).Inc()
		return errors.New("event carries neither an error nor a message")
	}

	var err error
	switch r.target.Kind() {
	case eventtarget.KindLogging:
		err = r.reportEntry(ctx, message, ev)
	case eventtarget.KindErrorReporting:
		err = r.reportError(ctx, message, ev)
	}
	if err != nil {
		r.metrics.eventsTotal.WithLabelValues(outcomeFailed).Inc()
		return err
	}
	r.metrics.eventsTotal.WithLabelValues(outcomeDelivered).Inc()
	return nil
}

func (r *Reporter) reportEntry(ctx context.Context, message string, ev Event) error {
	// Shape the payload the way Error Reporting extracts error events from
	// log entries: message plus serviceContext, with the request and user
	// under context.
	payload := map[string]interface{}{
		"eventTime": time.Now().UTC().Format(time.RFC3339Nano),
		"message":   message,
	}
	if r.service != "" {
		payload["serviceContext"] = map[string]string{
			"service": r.service,
			"version": r.version,
		}
	}
	if eventContext := contextPayload(ev); len(eventContext) > 0 {
		payload["context"] = eventContext
	}

	err := r.write.LogSync(ctx, logging.Entry{
		Severity: logging.Error,
		Payload:  payload,
	})
	if err != nil {
		return errors.Wrapf(err, "writing error event to log %s", r.target.LogName())
	}
	level.Debug(r.logger).Log("msg", "error event written", "log", r.target.LogName())
	return nil
}

func contextPayload(ev Event) map[string]interface{} {
	eventContext := map[string]interface{}{}
	if ev.User != "" {
		eventContext["user"] = ev.User
	}
	if ev.Req != nil {
		eventContext["httpRequest"] = map[string]interface{}{
			"method":    ev.Req.Method,
			"url":       ev.Req.URL.String(),
			"userAgent": ev.Req.UserAgent(),
		}
	}
	return eventContext
}

func (r *Reporter) reportError(ctx context.Context, message string, ev Event) error {
	reported := ev.Error
	if reported == nil {
		reported = errors.New(message)
	}
	err := r.send.ReportSync(ctx, errorreporting.Entry{
		Error: reported,
		User:  ev.User,
		Req:   ev.Req,
	})
	if err != nil {
		return errors.Wrap(err, "reporting error event")
	}
	level.Debug(r.logger).Log("msg", "error event reported")
	return nil
}

// Close releases clients the target constructed itself. Injected clients are
// left open for their owners.
func (r *Reporter) Close() error {
	if !r.target.OwnsClient() {
		return nil
	}
	switch r.target.Kind() {
	case eventtarget.KindLogging:
		return r.target.LoggingClient().Close()
	case eventtarget.KindErrorReporting:
		return r.target.ErrorReportingClient().Close()
	}
	return nil
}
