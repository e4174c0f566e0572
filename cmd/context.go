package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/emrgen/cms"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "cms"
	contextDir     = "./.tmp"
)

var Token string

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

type Context struct {
	Token        string `json:"token" mapstructure:"token"`
	Organization string `json:"organization" mapstructure:"organization"`
	Email        string `json:"email" mapstructure:"email"`
}

// saves the context info to ./.tmp/cms.yml
func setContextCommand() *cobra.Command {
	var token string
	command := &cobra.Command{
		Use:   "set",
		Short: "set context",
		Run: func(cmd *cobra.Command, args []string) {
			if token == "" {
				color.Red(`missing: --token`)
				return
			}

			writeContext(Context{Token: token})
			fmt.Println("context saved")
		},
	}

	command.Flags().StringVarP(&token, "token", "t", "", "token")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := readContext()
			if ctx.Token == "" {
				color.Yellow("no context, run: cms login")
				return
			}
			color.Green("organization: %s", ctx.Organization)
			color.Green("user: %s", ctx.Email)
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			writeContext(Context{})
			fmt.Println("context reset")
		},
	}

	return command
}

func writeContext(context Context) {
	ensureContextFile()

	v := viper.New()
	v.SetConfigName(configFileName)
	v.AddConfigPath(contextDir)
	v.SetConfigType("yml")
	v.Set("context", context)

	if err := v.WriteConfig(); err != nil {
		fmt.Println("error writing config file: ", err)
	}
}

func bindContextFlags(command *cobra.Command) {
	command.Flags().StringVarP(&Token, "token", "t", "", "token (defaults to the saved context)")
}

// apiClient returns a client authenticated with --token or the saved context.
func apiClient() (cms.Client, context.Context) {
	if Token == "" {
		Token = readContext().Token
	}
	return cms.NewClient(serverURL, Token), context.Background()
}

func readContext() Context {
	var ctx Context

	ensureContextFile()

	v := viper.New()
	v.SetConfigName(configFileName)
	v.AddConfigPath(contextDir)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("error reading config file: ", err)
	}

	if err := v.UnmarshalKey("context", &ctx); err != nil {
		fmt.Println("error unmarshalling config file: ", err)
	}

	return ctx
}

// create the file if it doesn't exist
func ensureContextFile() {
	path := contextDir + "/" + configFileName + ".yml"
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return
	}
	if err := os.MkdirAll(contextDir, 0o755); err != nil {
		fmt.Println("error creating config dir: ", err)
		return
	}
	file, err := os.Create(path)
	if err != nil {
		fmt.Println("error creating config file: ", err)
		return
	}
	_ = file.Close()
}
