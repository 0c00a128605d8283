package eventtarget

import (
	"context"
	"errors"
	"fmt"

	"github.com/grafana/dskit/multierror"
	mrpb "google.golang.org/genproto/googleapis/api/monitoredres"
)

// Config is the declarative form of an EventTarget, for use inside YAML
// configuration files.
type Config struct {
	// Kind selects the backend: "logging" or "error_reporting".
	Kind string `yaml:"kind"`
	// Exactly one scope is required for the logging kind. For the
	// error_reporting kind only project_id applies, and only to default
	// client construction.
	ProjectID        string `yaml:"project_id"`
	OrganizationID   string `yaml:"organization_id"`
	FolderID         string `yaml:"folder_id"`
	BillingAccountID string `yaml:"billing_account_id"`
	// Log stream settings, logging kind only.
	LogName        string            `yaml:"log_name"`
	ResourceType   string            `yaml:"resource_type"`
	ResourceLabels map[string]string `yaml:"resource_labels"`
	// Service context attached to reported events.
	Service        string `yaml:"service"`
	ServiceVersion string `yaml:"service_version"`
}

var DefaultConfig = Config{
	Kind:    KindLogging.String(),
	LogName: DefaultLogName,
}

// UnmarshalYAML implements yaml.Unmarshaler for Config.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultConfig

	type plain Config
	return unmarshal((*plain)(c))
}

func (c *Config) Validate() error {
	configErrors := multierror.MultiError{}

	switch c.Kind {
	case KindLogging.String():
		switch n := c.scopeCount(); {
		case n == 0:
			configErrors.Add(errors.New("one of project_id, organization_id, folder_id or billing_account_id is required"))
		case n > 1:
			configErrors.Add(errors.New("project_id, organization_id, folder_id and billing_account_id are mutually exclusive"))
		}
		if c.LogName == "" {
			configErrors.Add(errors.New("log_name must not be empty"))
		}
	case KindErrorReporting.String():
		if c.OrganizationID != "" || c.FolderID != "" || c.BillingAccountID != "" {
			configErrors.Add(errors.New("organization_id, folder_id and billing_account_id only apply to the logging kind"))
		}
	default:
		configErrors.Add(fmt.Errorf("unknown kind %q, expected %q or %q", c.Kind, KindLogging, KindErrorReporting))
	}

	if len(c.ResourceLabels) > 0 && c.ResourceType == "" {
		configErrors.Add(errors.New("resource_labels requires resource_type"))
	}

	return configErrors.Err()
}

func (c *Config) scopeCount() int {
	n := 0
	for _, id := range []string{c.ProjectID, c.OrganizationID, c.FolderID, c.BillingAccountID} {
		if id != "" {
			n++
		}
	}
	return n
}

func (c *Config) logTarget() (*LogTarget, error) {
	switch {
	case c.ProjectID != "":
		return LogTargetForProject(c.ProjectID)
	case c.OrganizationID != "":
		return LogTargetForOrganization(c.OrganizationID)
	case c.FolderID != "":
		return LogTargetForFolder(c.FolderID)
	default:
		return LogTargetForBillingAccount(c.BillingAccountID)
	}
}

// Target validates the config and builds the EventTarget it describes. Extra
// options are applied after the config-derived ones, so callers can inject
// clients for tests or pass credentials through WithClientOptions.
func (c *Config) Target(ctx context.Context, extra ...Option) (*EventTarget, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts := []Option{
		WithProjectID(c.ProjectID),
		WithServiceContext(c.Service, c.ServiceVersion),
	}

	if c.Kind == KindErrorReporting.String() {
		return ForErrorReporting(ctx, append(opts, extra...)...)
	}

	target, err := c.logTarget()
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithLogName(c.LogName))
	if c.ResourceType != "" {
		opts = append(opts, WithMonitoredResource(&mrpb.MonitoredResource{
			Type:   c.ResourceType,
			Labels: c.ResourceLabels,
		}))
	}
	return ForLogging(ctx, target, append(opts, extra...)...)
}
