package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Product identification sent in the User-Agent header.
const (
	// ProductName is the first segment of the User-Agent header.
	ProductName = "VonageServerClient"

	// RuntimeName is the runtime segment of the User-Agent header.
	RuntimeName = "Go"

	// ClientVersion is the library version reported in the User-Agent header.
	ClientVersion = "0.1.0"
)

// DefaultUserAgent is "<product>,<version>/<runtime>".
const DefaultUserAgent = ProductName + "," + ClientVersion + "/" + RuntimeName

// Regional API hosts.
const (
	// BaseURLUS is the API host for the US region and the default.
	BaseURLUS = "https://api-us.vonage.com"

	// BaseURLEU is the API host for the EU region.
	BaseURLEU = "https://api-eu.vonage.com"

	// BaseURLAP is the API host for the AP region.
	BaseURLAP = "https://api-ap.vonage.com"
)

// Token lifetimes.
const (
	// ApplicationTokenTTL is the lifetime of tokens the client signs for itself.
	ApplicationTokenTTL = 3600 * time.Second

	// UserTokenTTL is the default lifetime of subject-scoped (user) tokens.
	UserTokenTTL = 300 * time.Second

	// RefreshGrace is added to the current time when deciding whether to refresh.
	RefreshGrace = 5 * time.Second
)

// HTTP timeouts used outside the request pipeline.
const (
	// ServerReadHeaderTimeout bounds header reads for the webhook server.
	ServerReadHeaderTimeout = 10 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the webhook server.
	ShutdownTimeout = 15 * time.Second
)

// HTTP status boundaries for success classification.
const (
	// HTTPStatusSuccessMin is the lowest status code treated as success.
	HTTPStatusSuccessMin = 200

	// HTTPStatusSuccessMax is the highest status code treated as success.
	HTTPStatusSuccessMax = 299
)

// API paths.
const (
	// PathCalls is the Voice API calls collection.
	PathCalls = "/v1/calls"

	// PathUsers is the Conversation API users collection.
	PathUsers = "/v1/users"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "<********>"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// Environment variables.
const (
	// EnvDebugSecrets enables plaintext rendering of secrets when set to "true" or "1".
	EnvDebugSecrets = "VONAGE_DEBUG_SECRETS"

	// EnvPrefix is the viper environment prefix for the CLI.
	EnvPrefix = "VONAGE"
)
