package eventtarget

import (
	"cloud.google.com/go/errorreporting"
	"cloud.google.com/go/logging"
	"google.golang.org/api/option"
	mrpb "google.golang.org/genproto/googleapis/api/monitoredres"
)

type options struct {
	logName         string
	loggingClient   *logging.Client
	reportingClient *errorreporting.Client
	resource        *mrpb.MonitoredResource
	projectID       string
	serviceName     string
	serviceVersion  string
	clientOptions   []option.ClientOption
}

// Option customizes target construction. Options that do not apply to the
// constructed kind are ignored.
type Option func(*options)

func buildOptions(opts []Option) *options {
	o := &options{logName: DefaultLogName}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogName overrides DefaultLogName for logging targets.
func WithLogName(name string) Option {
	return func(o *options) { o.logName = name }
}

// WithLoggingClient injects the Cloud Logging client to use instead of
// constructing a default one. The caller keeps ownership of the client.
func WithLoggingClient(client *logging.Client) Option {
	return func(o *options) { o.loggingClient = client }
}

// WithErrorReportingClient injects the Error Reporting client to use instead
// of constructing a default one. The caller keeps ownership of the client.
func WithErrorReportingClient(client *errorreporting.Client) Option {
	return func(o *options) { o.reportingClient = client }
}

// WithMonitoredResource overrides the generic global resource descriptor for
// logging targets.
func WithMonitoredResource(resource *mrpb.MonitoredResource) Option {
	return func(o *options) { o.resource = resource }
}

// WithProjectID sets the project the default Error Reporting client reports
// to, skipping environment and metadata server lookups.
func WithProjectID(projectID string) Option {
	return func(o *options) { o.projectID = projectID }
}

// WithServiceContext sets the service name and version attached to events by
// the default Error Reporting client.
func WithServiceContext(service, version string) Option {
	return func(o *options) {
		o.serviceName = service
		o.serviceVersion = version
	}
}

// WithClientOptions passes extra options through to default client
// construction, e.g. option.WithCredentialsFile.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(o *options) { o.clientOptions = append(o.clientOptions, opts...) }
}
