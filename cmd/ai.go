package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "ai generation commands",
}

func init() {
	aiCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	aiCmd.AddCommand(listGenerationCmd("ideas", "suggest content ideas for a topic", func(ctx context.Context, topic string, count int) ([]string, error) {
		client, _ := apiClient()
		return client.GenerateIdeas(ctx, topic, count)
	}))
	aiCmd.AddCommand(listGenerationCmd("titles", "suggest title variations for a topic", func(ctx context.Context, topic string, count int) ([]string, error) {
		client, _ := apiClient()
		return client.GenerateTitles(ctx, topic, count)
	}))
}

func listGenerationCmd(use, short string, generate func(ctx context.Context, topic string, count int) ([]string, error)) *cobra.Command {
	var topic string
	var count int

	var required = []string{"topic"}

	command := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: "cms ai " + use + " --topic <topic> -n 5",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			items, err := generate(cmd.Context(), topic, count)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "Suggestion"})
			for i, item := range items {
				table.Append([]string{strconv.Itoa(i + 1), item})
			}
			table.Render()
		},
	}

	bindContextFlags(command)
	command.Flags().StringVar(&topic, "topic", "", "topic (required)")
	command.Flags().IntVarP(&count, "count", "n", 5, "number of suggestions")

	return command
}
