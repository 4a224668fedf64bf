package commands

import (
	"fmt"

	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage Conversation API users",
		Long:    "List, create, view and delete users of the Conversation API",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersCreateCommand())
	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersDeleteCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	opts := &vonage.UserListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List one page of users. Use --cursor to fetch the following pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			page, err := client.Users().List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			return render(cmd.OutOrStdout(), page, func(table *tablewriter.Table) error {
				table.Header("ID", "Name", "Display Name")

				for _, user := range page.Users() {
					err := table.Append([]string{user.ID, user.Name, user.DisplayName})
					if err != nil {
						return fmt.Errorf("failed to append user: %w", err)
					}
				}

				return nil
			})
		},
	}

	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "number of users per page")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order (asc or desc)")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "page cursor from a previous response")
	cmd.Flags().StringVar(&opts.Name, "name", "", "filter by user name")

	return cmd
}

func newUsersCreateCommand() *cobra.Command {
	var displayName, imageURL string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a user",
		Long:  "Create a new Conversation API user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := vonage.NewUser(args[0])
			user.DisplayName = displayName
			user.ImageURL = imageURL

			err := user.Validate()
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			created, err := client.Users().Create(cmd.Context(), user)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			return renderUser(cmd, created)
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "display name")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "avatar image URL")

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get user details",
		Long:  "Display detailed information about a specific user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return constants.ErrUserIDRequired
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			user, err := client.Users().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			return renderUser(cmd, user)
		},
	}
}

func newUsersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete USER_ID",
		Short: "Delete a user",
		Long:  "Delete a Conversation API user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return constants.ErrUserIDRequired
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			err = client.Users().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])

			return nil
		},
	}
}

func renderUser(cmd *cobra.Command, user *vonage.User) error {
	return render(cmd.OutOrStdout(), user, propertyTable([][]string{
		{"ID", valueOrNA(user.ID)},
		{"Name", valueOrNA(user.Name)},
		{"Display Name", valueOrNA(user.DisplayName)},
		{"Image URL", valueOrNA(user.ImageURL)},
	}))
}
