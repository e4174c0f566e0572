package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/emrgen/cms"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "content commands",
}

func init() {
	contentCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	contentCmd.AddCommand(listContentCmd())
	contentCmd.AddCommand(getContentCmd())
	contentCmd.AddCommand(createContentCmd())
	contentCmd.AddCommand(updateContentCmd())
	contentCmd.AddCommand(publishContentCmd())
	contentCmd.AddCommand(unpublishContentCmd())
	contentCmd.AddCommand(deleteContentCmd())
}

func listContentCmd() *cobra.Command {
	var query cms.ListQuery

	command := &cobra.Command{
		Use:     "list",
		Short:   "list content",
		Example: "cms content list --status PUBLISHED --sort title --order asc",
		Run: func(cmd *cobra.Command, args []string) {
			client, ctx := apiClient()
			list, err := client.ListContent(ctx, query)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Slug", "Status", "Type", "Views"})
			for _, content := range list.Items {
				table.Append([]string{content.ID, content.Title, content.Slug, content.Status, content.Type, strconv.FormatInt(content.ViewCount, 10)})
			}
			table.Render()

			p := list.Pagination
			color.Cyan("page %d of %d (%d total)", p.Page, p.Pages, p.Total)
		},
	}

	bindContextFlags(command)
	command.Flags().StringVar(&query.Status, "status", "", "DRAFT, PUBLISHED or ARCHIVED")
	command.Flags().StringVar(&query.Type, "type", "", "POST, ARTICLE, PAGE or NEWSLETTER")
	command.Flags().StringVarP(&query.Search, "search", "s", "", "search title, excerpt, body and tags")
	command.Flags().IntVar(&query.Page, "page", 1, "page")
	command.Flags().IntVar(&query.Limit, "limit", 10, "page size")
	command.Flags().StringVar(&query.Sort, "sort", "", "createdAt, updatedAt, publishedAt, title or viewCount")
	command.Flags().StringVar(&query.Order, "order", "", "asc or desc")
	command.Flags().SortFlags = false

	return command
}

func getContentCmd() *cobra.Command {
	var id string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a content item",
		Example: "cms content get -i <content-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, ctx := apiClient()
			content, err := client.GetContent(ctx, id)
			if err != nil {
				logrus.Error(err)
				return
			}

			printContent(content)
			cmd.Println(content.Body)
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&id, "id", "i", "", "content id (required)")

	return command
}

func createContentCmd() *cobra.Command {
	var title, slug, body, status, contentType, tags string

	var required = []string{"title", "body"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a content item",
		Example: "cms content create --title <title> -b <body> --type POST --tags go,web",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := contentRequest(cmd, title, slug, body, status, contentType, tags)
			client, ctx := apiClient()
			content, err := client.CreateContent(ctx, req)
			if err != nil {
				logrus.Error(err)
				return
			}

			color.Green("content created with id: %s", content.ID)
			printContent(content)
		},
	}

	bindContextFlags(command)
	bindContentFlags(command, &title, &slug, &body, &status, &contentType, &tags)

	return command
}

func updateContentCmd() *cobra.Command {
	var id, title, slug, body, status, contentType, tags string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:     "update",
		Short:   "update a content item",
		Example: "cms content update -i <content-id> --title <title>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			req := contentRequest(cmd, title, slug, body, status, contentType, tags)
			client, ctx := apiClient()
			content, err := client.UpdateContent(ctx, id, req)
			if err != nil {
				logrus.Error(err)
				return
			}

			printContent(content)
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&id, "id", "i", "", "content id (required)")
	bindContentFlags(command, &title, &slug, &body, &status, &contentType, &tags)

	return command
}

func publishContentCmd() *cobra.Command {
	return statusCmd("publish", "publish a content item", func(client cms.Client, cmd *cobra.Command, id string) (*cms.Content, error) {
		return client.PublishContent(cmd.Context(), id)
	})
}

func unpublishContentCmd() *cobra.Command {
	return statusCmd("unpublish", "move a content item back to draft", func(client cms.Client, cmd *cobra.Command, id string) (*cms.Content, error) {
		return client.UnpublishContent(cmd.Context(), id)
	})
}

func statusCmd(use, short string, apply func(client cms.Client, cmd *cobra.Command, id string) (*cms.Content, error)) *cobra.Command {
	var id string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: "cms content " + use + " -i <content-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, _ := apiClient()
			content, err := apply(client, cmd, id)
			if err != nil {
				logrus.Error(err)
				return
			}

			printContent(content)
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&id, "id", "i", "", "content id (required)")

	return command
}

func deleteContentCmd() *cobra.Command {
	var id string

	var required = []string{"id"}

	command := &cobra.Command{
		Use:     "delete",
		Short:   "delete a content item and its revisions",
		Example: "cms content delete -i <content-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, ctx := apiClient()
			if err := client.DeleteContent(ctx, id); err != nil {
				logrus.Error(err)
				return
			}

			color.Magenta("content deleted: %s", id)
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&id, "id", "i", "", "content id (required)")

	return command
}

func bindContentFlags(command *cobra.Command, title, slug, body, status, contentType, tags *string) {
	command.Flags().StringVar(title, "title", "", "title")
	command.Flags().StringVar(slug, "slug", "", "slug")
	command.Flags().StringVarP(body, "body", "b", "", "html body")
	command.Flags().StringVar(status, "status", "", "DRAFT, PUBLISHED or ARCHIVED")
	command.Flags().StringVar(contentType, "type", "", "POST, ARTICLE, PAGE or NEWSLETTER")
	command.Flags().StringVar(tags, "tags", "", "comma separated tags")
	command.Flags().SortFlags = false
}

// contentRequest sends only the flags that were given on the command line.
func contentRequest(cmd *cobra.Command, title, slug, body, status, contentType, tags string) cms.ContentRequest {
	var req cms.ContentRequest
	set := func(flag string, value string) *string {
		if !cmd.Flag(flag).Changed {
			return nil
		}
		return &value
	}

	req.Title = set("title", title)
	req.Slug = set("slug", slug)
	req.Body = set("body", body)
	req.Status = set("status", status)
	req.Type = set("type", contentType)
	if cmd.Flag("tags").Changed {
		list := []string{}
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				list = append(list, tag)
			}
		}
		req.Tags = &list
	}

	return req
}

func printContent(content *cms.Content) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Slug", "Status", "Type", "Version"})
	table.Append([]string{content.ID, content.Title, content.Slug, content.Status, content.Type, strconv.FormatInt(content.Version, 10)})
	table.Render()
}
