package cmd

import (
	"github.com/emrgen/cms"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var email string
	var password string

	var required = []string{"email", "password"}

	command := &cobra.Command{
		Use:     "login",
		Short:   "log in and save the session token",
		Example: "cms login -e <email> -p <password>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, ctx := apiClient()
			session, err := client.Login(ctx, email, password)
			if err != nil {
				logrus.Error(err)
				return
			}

			saveSession(session)
		},
	}

	command.Flags().StringVarP(&email, "email", "e", "", "email (required)")
	command.Flags().StringVarP(&password, "password", "p", "", "password (required)")
	command.Flags().SortFlags = false

	return command
}

func registerCmd() *cobra.Command {
	var req cms.RegisterRequest

	var required = []string{"email", "password", "organization"}

	command := &cobra.Command{
		Use:     "register",
		Short:   "create an organization with its owner and save the session token",
		Example: "cms register -e <email> -p <password> -o <organization> -n <name>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, ctx := apiClient()
			session, err := client.Register(ctx, req)
			if err != nil {
				logrus.Error(err)
				return
			}

			saveSession(session)
		},
	}

	command.Flags().StringVarP(&req.Email, "email", "e", "", "email (required)")
	command.Flags().StringVarP(&req.Password, "password", "p", "", "password (required)")
	command.Flags().StringVarP(&req.OrganizationName, "organization", "o", "", "organization name (required)")
	command.Flags().StringVarP(&req.Name, "name", "n", "", "display name")
	command.Flags().SortFlags = false

	return command
}

func saveSession(session *cms.Session) {
	writeContext(Context{
		Token:        session.Token,
		Organization: session.Organization.Slug,
		Email:        session.User.Email,
	})
	color.Green("logged in as %s (%s)", session.User.Email, session.Organization.Slug)
}
