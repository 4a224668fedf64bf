package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/fivetwenty-io/vonage-client/pkg/vonageclient"
	"github.com/go-logr/stdr"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const defaultJSONIndent = "  "

// outputFormat returns the requested output format. Without an explicit
// choice it is a table on a terminal and JSON otherwise.
func outputFormat() string {
	format := strings.ToLower(strings.TrimSpace(viper.GetString("output")))
	if format != "" {
		return format
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return constants.FormatTable
	}

	return constants.FormatJSON
}

// render writes data as JSON or YAML, or calls table for the table format.
func render(w io.Writer, data interface{}, table func(*tablewriter.Table) error) error {
	switch format := outputFormat(); format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", defaultJSONIndent)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return encoder.Close()
	case constants.FormatTable:
		t := tablewriter.NewWriter(w)

		err := table(t)
		if err != nil {
			return err
		}

		err = t.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedFormat, format)
	}
}

// propertyTable renders rows of property/value pairs.
func propertyTable(rows [][]string) func(*tablewriter.Table) error {
	return func(table *tablewriter.Table) error {
		table.Header("Property", "Value")

		for _, row := range rows {
			err := table.Append(row)
			if err != nil {
				return fmt.Errorf("failed to append row: %w", err)
			}
		}

		return nil
	}
}

func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

// newLogger returns a stdr backed logger writing to stderr. Debug messages
// are only emitted in verbose mode.
func newLogger() vonage.Logger {
	if viper.GetBool("verbose") {
		stdr.SetVerbosity(1)
	}

	return vonage.NewLogrLogger(stdr.New(log.New(os.Stderr, "", log.LstdFlags)))
}

// newBuilder assembles a client builder from flags, environment and the
// config file.
func newBuilder() (*vonageclient.Builder, error) {
	config := loadConfig()

	if config.ApplicationID == "" {
		return nil, constants.ErrNoApplicationID
	}

	builder := vonageclient.NewBuilder().
		ApplicationID(config.ApplicationID).
		Logger(newLogger()).
		Debug(viper.GetBool("verbose"))

	// VONAGE_PRIVATE_KEY may carry the PEM itself.
	switch pem := viper.GetString("private_key"); {
	case pem != "":
		builder.PrivateKeyPEM(pem)
	case config.PrivateKeyPath != "":
		builder.PrivateKeyFile(expandHome(config.PrivateKeyPath))
	default:
		return nil, constants.ErrNoPrivateKey
	}

	if config.Region != "" {
		builder.RegionName(config.Region)
	}

	if config.BaseURL != "" {
		builder.BaseURL(config.BaseURL)
	}

	if config.RefreshWindow != "" {
		window, err := time.ParseDuration(config.RefreshWindow)
		if err != nil {
			return nil, fmt.Errorf("parsing refresh_window: %w", err)
		}

		builder.RefreshWindow(window)
	}

	return builder, nil
}

// newClient builds a client from the current configuration.
func newClient(ctx context.Context) (vonage.Client, error) {
	builder, err := newBuilder()
	if err != nil {
		return nil, err
	}

	client, err := builder.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
