// Package eventtarget selects where application error events are delivered:
// Google Cloud Logging or Google Cloud Error Reporting.
package eventtarget

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/compute/metadata"
	"cloud.google.com/go/errorreporting"
	"cloud.google.com/go/logging"
	"google.golang.org/api/option"
	mrpb "google.golang.org/genproto/googleapis/api/monitoredres"
)

// DefaultLogName is the log stream error events are written to when a logging
// target does not name its own.
const DefaultLogName = "stackdriver-error-reporting"

// ErrInvalidArgument is wrapped by every validation error returned from the
// constructors in this package.
var ErrInvalidArgument = errors.New("invalid argument")

// Kind tags which backend an EventTarget delivers error events to.
type Kind int

const (
	// KindLogging delivers error events as Cloud Logging entries.
	KindLogging Kind = iota + 1
	// KindErrorReporting delivers error events to the Error Reporting API.
	KindErrorReporting
)

func (k Kind) String() string {
	switch k {
	case KindLogging:
		return "logging"
	case KindErrorReporting:
		return "error_reporting"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// GlobalResource returns the generic monitored resource log entries are
// attributed to when a target does not supply one.
func GlobalResource() *mrpb.MonitoredResource {
	return &mrpb.MonitoredResource{Type: "global"}
}

// EventTarget describes a destination for application error events plus the
// parameters relevant to that destination. It is immutable once constructed
// and safe to share between goroutines; only the fields belonging to the
// selected kind are ever populated.
type EventTarget struct {
	kind Kind

	// Populated iff kind == KindLogging.
	loggingClient     *logging.Client
	logTarget         *LogTarget
	logName           string
	monitoredResource *mrpb.MonitoredResource

	// Populated iff kind == KindErrorReporting.
	errorReportingClient *errorreporting.Client

	ownsClient bool
}

// Kind reports which backend the target delivers to.
func (t *EventTarget) Kind() Kind { return t.kind }

// LoggingClient returns the Cloud Logging client, or nil for targets of a
// different kind.
func (t *EventTarget) LoggingClient() *logging.Client { return t.loggingClient }

// ErrorReportingClient returns the Error Reporting client, or nil for targets
// of a different kind.
func (t *EventTarget) ErrorReportingClient() *errorreporting.Client {
	return t.errorReportingClient
}

// LogTarget returns the scope log entries are written under, or nil for
// targets of a different kind.
func (t *EventTarget) LogTarget() *LogTarget { return t.logTarget }

// LogName returns the log stream name, or "" for targets of a different kind.
func (t *EventTarget) LogName() string { return t.logName }

// MonitoredResource returns the resource descriptor log entries are attributed
// to, or nil for targets of a different kind.
func (t *EventTarget) MonitoredResource() *mrpb.MonitoredResource {
	return t.monitoredResource
}

// OwnsClient reports whether the constructor built the client the target
// holds. Injected clients remain the responsibility of whoever supplied them.
func (t *EventTarget) OwnsClient() bool { return t.ownsClient }

// Default client construction, stubbed out in tests.
var (
	newLoggingClient = func(ctx context.Context, parent string, opts ...option.ClientOption) (*logging.Client, error) {
		return logging.NewClient(ctx, parent, opts...)
	}
	newReportingClient = func(ctx context.Context, projectID string, cfg errorreporting.Config, opts ...option.ClientOption) (*errorreporting.Client, error) {
		return errorreporting.NewClient(ctx, projectID, cfg, opts...)
	}
)

// ForLoggingProject returns a logging target scoped to the given project. The
// log name defaults to DefaultLogName and the monitored resource to the
// generic global descriptor unless overridden through options.
func ForLoggingProject(ctx context.Context, projectID string, opts ...Option) (*EventTarget, error) {
	target, err := LogTargetForProject(projectID)
	if err != nil {
		return nil, err
	}
	return ForLogging(ctx, target, opts...)
}

// ForLogging returns a logging target for the given scope. When no client is
// injected through WithLoggingClient, a default Cloud Logging client is
// constructed for the scope's parent; constructing it may block on credential
// discovery, so keep this call off latency-sensitive paths.
func ForLogging(ctx context.Context, target *LogTarget, opts ...Option) (*EventTarget, error) {
	o := buildOptions(opts)

	if target == nil {
		return nil, fmt.Errorf("%w: log target must not be nil", ErrInvalidArgument)
	}
	if o.logName == "" {
		return nil, fmt.Errorf("%w: log name must not be empty", ErrInvalidArgument)
	}

	t := &EventTarget{
		kind:              KindLogging,
		logTarget:         target,
		logName:           o.logName,
		monitoredResource: o.resource,
		loggingClient:     o.loggingClient,
	}
	if t.monitoredResource == nil {
		t.monitoredResource = GlobalResource()
	}
	if t.loggingClient == nil {
		client, err := newLoggingClient(ctx, target.Parent(), o.clientOptions...)
		if err != nil {
			return nil, fmt.Errorf("creating logging client for %s: %w", target.Parent(), err)
		}
		t.loggingClient = client
		t.ownsClient = true
	}
	return t, nil
}

// ForErrorReporting returns a target that delivers to the Error Reporting
// API. When no client is injected through WithErrorReportingClient, a default
// one is constructed; its project is taken from WithProjectID, the
// GOOGLE_CLOUD_PROJECT environment variable, or the GCE metadata server, in
// that order.
func ForErrorReporting(ctx context.Context, opts ...Option) (*EventTarget, error) {
	o := buildOptions(opts)

	t := &EventTarget{
		kind:                 KindErrorReporting,
		errorReportingClient: o.reportingClient,
	}
	if t.errorReportingClient == nil {
		projectID, err := resolveProjectID(o)
		if err != nil {
			return nil, err
		}
		cfg := errorreporting.Config{
			ServiceName:    o.serviceName,
			ServiceVersion: o.serviceVersion,
		}
		if cfg.ServiceName == "" {
			cfg.ServiceName = filepath.Base(os.Args[0])
		}
		client, err := newReportingClient(ctx, projectID, cfg, o.clientOptions...)
		if err != nil {
			return nil, fmt.Errorf("creating error reporting client for project %s: %w", projectID, err)
		}
		t.errorReportingClient = client
		t.ownsClient = true
	}
	return t, nil
}

func resolveProjectID(o *options) (string, error) {
	if o.projectID != "" {
		return o.projectID, nil
	}
	if projectID := os.Getenv("GOOGLE_CLOUD_PROJECT"); projectID != "" {
		return projectID, nil
	}
	if metadata.OnGCE() {
		projectID, err := metadata.ProjectID()
		if err != nil {
			return "", fmt.Errorf("resolving project id from metadata server: %w", err)
		}
		return projectID, nil
	}
	return "", errors.New("no project id: supply WithProjectID or set GOOGLE_CLOUD_PROJECT")
}
