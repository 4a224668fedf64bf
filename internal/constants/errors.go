package constants

import "errors"

// Configuration errors.
var (
	ErrNoApplicationID   = errors.New("no application id configured, use --app-id or 'vonage config set application_id'")
	ErrNoPrivateKey      = errors.New("no private key configured, use --private-key or 'vonage config set private_key_path'")
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Required field errors.
var (
	ErrSubjectRequired = errors.New("--sub flag is required for user tokens")
	ErrUserIDRequired  = errors.New("user id is required")
)

// ErrInvalidACLRule is returned for an --acl flag without a path.
var ErrInvalidACLRule = errors.New("invalid ACL rule, expected PATH[=METHOD,METHOD]")
