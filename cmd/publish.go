package cmd

import (
	"context"
	"fmt"

	appdist "vidtowav/application/distribution"
	"vidtowav/domain/distribution"
	"vidtowav/infrastructure/config"
	"vidtowav/infrastructure/drive"
	"vidtowav/infrastructure/history"

	"github.com/spf13/cobra"
)

var (
	publishFiles    []string
	publishFolderID string
	publishPublic   bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload converted audio to Google Drive",
	Long: `Upload audio files to the configured Google Drive folder.

By default, uploads the files converted by the most recent run.
Use --file to pick files explicitly. A file with the same name already
in the folder is replaced.

Example:
  vidtowav publish
  vidtowav publish --file ~/Audio/talk.mp3 --public`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringArrayVar(&publishFiles, "file", nil, "Audio file to upload (can be repeated; defaults to the last run's outputs)")
	publishCmd.Flags().StringVar(&publishFolderID, "folder-id", "", "Google Drive folder ID (defaults to google.folder_id)")
	publishCmd.Flags().BoolVar(&publishPublic, "public", false, `Share each upload with "anyone with the link"`)
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	if publishFolderID != "" {
		cfg.Google.FolderID = publishFolderID
	}
	if cmd.Flags().Changed("public") {
		cfg.Google.SharePublicly = publishPublic
	}

	paths := absPaths(publishFiles)
	if len(paths) == 0 {
		if cfg.History.Path == "" {
			return fmt.Errorf("run history is disabled; pass --file")
		}
		store, err := history.Open(cfg.History.Path, logger)
		if err != nil {
			return err
		}
		paths, err = lastOutputs(store)
		store.Close()
		if err != nil {
			return err
		}
	}

	return publishPaths(cmd.Context(), cfg, paths)
}

// publishPaths signs in to Google Drive and uploads paths
func publishPaths(ctx context.Context, cfg *config.Config, paths []string) error {
	if len(paths) == 0 {
		fmt.Fprintln(DefaultOutput, "Nothing to publish.")
		return nil
	}

	client, err := drive.NewClientWithOAuth(ctx, drive.OAuthConfig{
		CredentialsFile: cfg.Google.CredentialsFile,
		TokenFile:       cfg.Google.TokenFile,
		Output:          DefaultOutput,
	})
	if err != nil {
		return fmt.Errorf("failed to create Google Drive client: %w", err)
	}

	return RunPublishWithDependencies(ctx, client, cfg.Google.FolderID, cfg.Google.SharePublicly, paths, DefaultOutput)
}

// RunPublishWithDependencies runs the publish command with injected dependencies (for testing)
func RunPublishWithDependencies(
	ctx context.Context,
	driveClient distribution.DriveClient,
	folderID string,
	public bool,
	paths []string,
	output OutputWriter,
) error {
	service := appdist.NewPublishService(driveClient, folderID,
		appdist.WithPublicSharing(public),
		appdist.WithOutput(output),
		appdist.WithLogger(logger),
	)

	published, err := service.Publish(ctx, paths)
	if err != nil {
		return fmt.Errorf("publish failed after %d of %d file(s): %w", len(published), len(paths), err)
	}

	var total int64
	for _, p := range published {
		total += p.Result.Size
	}
	fmt.Fprintf(output, "Published %d file(s), %s.\n", len(published), megabytes(total))
	return nil
}
