package eventtarget_test

import (
	"context"
	"testing"

	"cloud.google.com/go/logging"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/errbridge/errbridge/pkg/eventtarget"
)

func TestConfig_UnmarshalYAML_Defaults(t *testing.T) {
	var cfg eventtarget.Config
	err := yaml.Unmarshal([]byte(`project_id: my-project`), &cfg)
	require.NoError(t, err)

	require.Equal(t, "logging", cfg.Kind)
	require.Equal(t, eventtarget.DefaultLogName, cfg.LogName)
	require.Equal(t, "my-project", cfg.ProjectID)
}

func TestConfig_Validate(t *testing.T) {
	baseConfig := eventtarget.Config{
		Kind:      "logging",
		ProjectID: "my-project",
		LogName:   eventtarget.DefaultLogName,
	}

	t.Run("base config is valid", func(t *testing.T) {
		require.NoError(t, baseConfig.Validate())
	})

	tests := []struct {
		name           string
		configModifier func(config eventtarget.Config) eventtarget.Config
		shouldError    bool
	}{
		{
			name: "unknown kind",
			configModifier: func(config eventtarget.Config) eventtarget.Config {
				config.Kind = "syslog"
				return config
			},
			shouldError: true,
		},
		{
			name: "no scope",
			configModifier: func(config eventtarget.Config) eventtarget.Config {
				config.ProjectID = ""
				return config
			},
			shouldError: true,
		},
		{
			name: "two scopes",
			configModifier: func(config eventtarget.Config) eventtarget.Config {
				config.OrganizationID = "12345"
				return config
			},
			shouldError: true,
		},
		{
			name: "empty log name",
			configModifier: func(config eventtarget.Config) eventtarget.Config {
				config.LogName = ""
				return config
			},
			shouldError: true,
		},
		{
			name: "organization scope",
			configModifier: func(config eventtarget.Config) eventtarget.Config {
				config.ProjectID = ""
				config.OrganizationID = "12345"
				return config
			},
			shouldError: false,
		},
		{
			name: "resource labels without type",
			configModifier: func(config eventtarget.Config) eventtarget.Config {
				config.ResourceLabels = map[string]string{"module_id": "default"}
				return config
			},
			shouldError: true,
		},
		{
			name: "error reporting needs no scope",
			configModifier: func(config eventtarget.Config) eventtarget.Config {
				return eventtarget.Config{Kind: "error_reporting"}
			},
			shouldError: false,
		},
		{
			name: "error reporting rejects logging scopes",
			configModifier: func(config eventtarget.Config) eventtarget.Config {
				return eventtarget.Config{Kind: "error_reporting", FolderID: "67890"}
			},
			shouldError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.configModifier(baseConfig)
			err := cfg.Validate()
			if tt.shouldError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_Target(t *testing.T) {
	client := new(logging.Client)
	cfg := eventtarget.Config{
		Kind:         "logging",
		ProjectID:    "my-project",
		LogName:      "custom-log",
		ResourceType: "gae_app",
		ResourceLabels: map[string]string{
			"module_id": "default",
		},
	}

	target, err := cfg.Target(context.Background(), eventtarget.WithLoggingClient(client))
	require.NoError(t, err)

	require.Equal(t, eventtarget.KindLogging, target.Kind())
	require.Equal(t, "projects/my-project", target.LogTarget().Parent())
	require.Equal(t, "custom-log", target.LogName())
	require.Equal(t, "gae_app", target.MonitoredResource().GetType())
	require.Equal(t, "default", target.MonitoredResource().GetLabels()["module_id"])
	require.Same(t, client, target.LoggingClient())
}

func TestConfig_Target_InvalidConfig(t *testing.T) {
	cfg := eventtarget.Config{Kind: "logging"}

	_, err := cfg.Target(context.Background())
	require.Error(t, err)
}
