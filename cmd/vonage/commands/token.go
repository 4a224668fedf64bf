package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fivetwenty-io/vonage-client/internal/auth"
	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/spf13/cobra"
)

// TokenOutput is the printed form of a signed token.
type TokenOutput struct {
	Token     string      `json:"token"             yaml:"token"`
	ExpiresAt time.Time   `json:"expires_at"        yaml:"expires_at"`
	Subject   string      `json:"sub,omitempty"     yaml:"sub,omitempty"`
	ACL       *vonage.ACL `json:"acl,omitempty"     yaml:"acl,omitempty"`
}

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate and inspect JWTs",
		Long:  "Generate application and Client SDK user tokens, and inspect existing tokens",
	}

	cmd.AddCommand(newTokenAppCommand())
	cmd.AddCommand(newTokenUserCommand())
	cmd.AddCommand(newTokenDecodeCommand())

	return cmd
}

func newTokenAppCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "app",
		Short: "Generate an application token",
		Long:  "Sign a token for the configured application, as used to authenticate API requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := newBuilder()
			if err != nil {
				return err
			}

			if ttl > 0 {
				builder.TokenTTL(ttl)
			}

			err = builder.Validate()
			if err != nil {
				return err
			}

			config := builder.Config()

			generator, err := auth.NewGenerator(config.ApplicationID, config.PrivateKey,
				auth.WithApplicationTTL(config.EffectiveTokenTTL()))
			if err != nil {
				return err
			}

			signed, err := generator.GenerateApplicationToken()
			if err != nil {
				return err
			}

			return renderToken(cmd, TokenOutput{Token: signed.Token.Reveal(), ExpiresAt: signed.ExpiresAt})
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default 1h)")

	return cmd
}

func newTokenUserCommand() *cobra.Command {
	var (
		subject    string
		ttl        time.Duration
		rules      []string
		defaultACL bool
	)

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Generate a Client SDK user token",
		Long: `Sign a login token for a Client SDK user.

ACL rules take the form PATH[=METHOD,METHOD], for example:
  vonage token user --sub alice --acl "/*/users/**" --acl "/*/conversations/**=GET,POST"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(subject) == "" {
				return constants.ErrSubjectRequired
			}

			acl, err := buildACL(rules, defaultACL)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			token, expiresAt, err := client.GenerateUserToken(subject, ttl, acl)
			if err != nil {
				return err
			}

			return renderToken(cmd, TokenOutput{Token: token.Reveal(), ExpiresAt: expiresAt, Subject: subject, ACL: acl})
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "user the token is issued for (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default 5m)")
	cmd.Flags().StringArrayVar(&rules, "acl", nil, "ACL rule PATH[=METHOD,METHOD], repeatable")
	cmd.Flags().BoolVar(&defaultACL, "default-acl", false, "include the rules the Client SDKs need")

	return cmd
}

func newTokenDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode TOKEN",
		Short: "Decode a token without verifying it",
		Long:  "Print the claims of a token. The signature is not checked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := auth.ParseUnverified(args[0])
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Application ID", valueOrNA(claims.ApplicationID)},
				{"Subject", valueOrNA(claims.Subject)},
				{"JTI", valueOrNA(claims.ID)},
				{"Expires At", formatTime(claims.Expiry())},
			}

			if claims.IssuedAt != nil {
				rows = append(rows, []string{"Issued At", formatTime(claims.IssuedAt.Time)})
			}

			if claims.ACL != nil {
				rows = append(rows, []string{"ACL Paths", strings.Join(aclPaths(claims.ACL), "\n")})
			}

			return render(cmd.OutOrStdout(), claims, propertyTable(rows))
		},
	}
}

func renderToken(cmd *cobra.Command, out TokenOutput) error {
	rows := [][]string{
		{"Token", out.Token},
		{"Expires At", formatTime(out.ExpiresAt)},
	}

	if out.Subject != "" {
		rows = append(rows, []string{"Subject", out.Subject})
	}

	return render(cmd.OutOrStdout(), out, propertyTable(rows))
}

// buildACL assembles an ACL from rule flags. It returns nil when there are
// no rules, which omits the claim.
func buildACL(rules []string, includeDefault bool) (*vonage.ACL, error) {
	if len(rules) == 0 && !includeDefault {
		return nil, nil
	}

	acl := vonage.NewACL()
	if includeDefault {
		acl = vonage.DefaultACL()
	}

	for _, rule := range rules {
		path, methods, err := parseACLRule(rule)
		if err != nil {
			return nil, err
		}

		acl.AddPath(path, methods...)
	}

	return acl, nil
}

// parseACLRule parses PATH[=METHOD,METHOD].
func parseACLRule(rule string) (string, []vonage.ACLMethod, error) {
	path, list, hasMethods := strings.Cut(strings.TrimSpace(rule), "=")

	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil, fmt.Errorf("%w: %q", constants.ErrInvalidACLRule, rule)
	}

	if !hasMethods {
		return path, nil, nil
	}

	var methods []vonage.ACLMethod

	for _, name := range strings.Split(list, ",") {
		method, err := vonage.ParseACLMethod(name)
		if err != nil {
			return "", nil, err
		}

		methods = append(methods, method)
	}

	return path, methods, nil
}

func aclPaths(acl *vonage.ACL) []string {
	paths := make([]string, 0, len(acl.Paths))

	for path, rule := range acl.Paths {
		if len(rule.Methods) == 0 {
			paths = append(paths, path)

			continue
		}

		methods := make([]string, len(rule.Methods))
		for i, m := range rule.Methods {
			methods[i] = string(m)
		}

		paths = append(paths, path+" "+strings.Join(methods, ","))
	}

	sort.Strings(paths)

	return paths
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return constants.NotAvailable
	}

	return t.UTC().Format(time.RFC3339)
}
