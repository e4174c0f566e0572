package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var serverURL string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cms",
	Short: "content management tool",
	Example: `cms serve
cms login -e <email> -p <password>
cms content list --status PUBLISHED
cms content create --title <title> -b <body>
cms content publish -i <content-id>
cms ai titles --topic <topic>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	defaultServer := os.Getenv("CMS_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:4001"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "server address")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(contextCommand)
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(aiCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
