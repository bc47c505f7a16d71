package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	pbimages "github.com/Elementlead/PbimageS"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your images",
	RunE:  runList,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <image-id>",
	Short: "Delete an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	listCmd.Flags().Bool("private", false, "list private images instead of public ones")
	uploadCmd.Flags().String("caption", "", "image caption")
	uploadCmd.Flags().Bool("private", false, "mark the image private")
}

func authedClient(cmd *cobra.Command) (*pbimages.Client, error) {
	client, err := newClient(cmd)
	if err != nil {
		return nil, err
	}
	if client.Session.Status() != pbimages.StatusAuthenticated {
		return nil, fmt.Errorf("not logged in, run 'pbctl login' first")
	}
	return client, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	client, err := authedClient(cmd)
	if err != nil {
		return err
	}

	scope := pbimages.ScopePublic
	if private, _ := cmd.Flags().GetBool("private"); private {
		scope = pbimages.ScopePrivate
	}
	if err := client.Gallery.SetScope(cmd.Context(), scope); err != nil {
		return fmt.Errorf("%s", pbimages.UserMessage(err))
	}

	items := client.Gallery.Items()
	if len(items) == 0 {
		fmt.Printf("No %s images\n", scope)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILENAME\tCAPTION\tSIZE\tUPLOADED")
	for _, img := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			img.ID, img.Filename, img.Caption, img.FileSize,
			img.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := authedClient(cmd)
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	caption, _ := cmd.Flags().GetString("caption")
	private, _ := cmd.Flags().GetBool("private")

	img, err := client.Gallery.Upload(cmd.Context(), file, filepath.Base(args[0]), caption, private)
	if img == nil {
		return fmt.Errorf("%s", pbimages.UserMessage(err))
	}

	fmt.Printf("Uploaded %s (%d bytes) as %s\n", img.Filename, img.FileSize, img.ID)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := authedClient(cmd)
	if err != nil {
		return err
	}

	if err := client.Gallery.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("%s", pbimages.UserMessage(err))
	}
	fmt.Println("Deleted", args[0])
	return nil
}
