package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	ApplicationID  string `json:"application_id,omitempty"   yaml:"application_id,omitempty"`
	PrivateKeyPath string `json:"private_key_path,omitempty" yaml:"private_key_path,omitempty"`
	Region         string `json:"region,omitempty"           yaml:"region,omitempty"`
	BaseURL        string `json:"base_url,omitempty"         yaml:"base_url,omitempty"`
	RefreshWindow  string `json:"refresh_window,omitempty"   yaml:"refresh_window,omitempty"`
	Output         string `json:"output,omitempty"           yaml:"output,omitempty"`

	// Webhook server settings
	Listen      string `json:"listen,omitempty"       yaml:"listen,omitempty"`
	NATSURL     string `json:"nats_url,omitempty"     yaml:"nats_url,omitempty"`
	NATSSubject string `json:"nats_subject,omitempty" yaml:"nats_subject,omitempty"`
}

// configKeys maps config keys to their field setters. Values are validated
// before they are saved.
var configKeys = map[string]func(*Config, string) error{
	"application_id":   func(c *Config, v string) error { c.ApplicationID = v; return nil },
	"private_key_path": func(c *Config, v string) error { c.PrivateKeyPath = v; return nil },
	"region": func(c *Config, v string) error {
		if v != "" {
			if _, err := vonage.ParseRegion(v); err != nil {
				return err
			}
		}

		c.Region = v

		return nil
	},
	"base_url": func(c *Config, v string) error { c.BaseURL = v; return nil },
	"refresh_window": func(c *Config, v string) error {
		if v != "" {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid refresh_window: %w", err)
			}
		}

		c.RefreshWindow = v

		return nil
	},
	"output": func(c *Config, v string) error {
		switch v {
		case "", constants.FormatJSON, constants.FormatYAML, constants.FormatTable:
			c.Output = v

			return nil
		default:
			return fmt.Errorf("%w: %s", constants.ErrUnsupportedFormat, v)
		}
	},
	"listen":       func(c *Config, v string) error { c.Listen = v; return nil },
	"nats_url":     func(c *Config, v string) error { c.NATSURL = v; return nil },
	"nats_subject": func(c *Config, v string) error { c.NATSSubject = v; return nil },
}

// ConfigKeys returns the supported configuration keys in order.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// ConfigDir returns ~/.vonage, creating it if needed.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".vonage")

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage Vonage CLI configuration such as the application id and private key path",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective CLI configuration from flags, environment and config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			return render(cmd.OutOrStdout(), config, propertyTable([][]string{
				{"Application ID", valueOrNA(config.ApplicationID)},
				{"Private Key Path", valueOrNA(config.PrivateKeyPath)},
				{"Region", valueOrNA(config.Region)},
				{"Base URL", valueOrNA(config.BaseURL)},
				{"Refresh Window", valueOrNA(config.RefreshWindow)},
				{"Output", valueOrNA(config.Output)},
				{"Listen", valueOrNA(config.Listen)},
				{"NATS URL", valueOrNA(config.NATSURL)},
				{"NATS Subject", valueOrNA(config.NATSSubject)},
			}))
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(ConfigKeys(), ", "),
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd, "Set", args[0], args[1])
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd, "Unset", args[0], "")
		},
	}
}

func updateConfig(cmd *cobra.Command, action, key, value string) error {
	config, err := readConfigFile(configFilePath())
	if err != nil {
		return err
	}

	err = setConfigValue(config, key, value)
	if err != nil {
		return err
	}

	err = saveConfig(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	result := map[string]string{"action": action, "key": key}
	rows := [][]string{{"Action", action}, {"Key", key}}

	if value != "" {
		result["value"] = value
		rows = append(rows, []string{"Value", value})
	}

	return render(cmd.OutOrStdout(), result, propertyTable(rows))
}

// setConfigValue sets key on config.
func setConfigValue(config *Config, key, value string) error {
	setter, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return setter(config, strings.TrimSpace(value))
}

// loadConfig returns the effective configuration as seen through viper.
func loadConfig() *Config {
	return &Config{
		ApplicationID:  viper.GetString("application_id"),
		PrivateKeyPath: viper.GetString("private_key_path"),
		Region:         viper.GetString("region"),
		BaseURL:        viper.GetString("base_url"),
		RefreshWindow:  viper.GetString("refresh_window"),
		Output:         viper.GetString("output"),
		Listen:         viper.GetString("listen"),
		NATSURL:        viper.GetString("nats_url"),
		NATSSubject:    viper.GetString("nats_subject"),
	}
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile
	}

	configDir, err := ConfigDir()
	if err != nil {
		return filepath.Join(".vonage", "config.yml")
	}

	return filepath.Join(configDir, "config.yml")
}

// readConfigFile reads only the persisted values, so flags and environment
// overrides are not written back.
func readConfigFile(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path) // #nosec G304 -- config path comes from the user's own flags
	if os.IsNotExist(err) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func saveConfig(config *Config) error {
	return writeConfigFile(configFilePath(), config)
}

func writeConfigFile(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[2:])
}
