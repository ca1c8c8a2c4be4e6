package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newDownloadCmd() *cobra.Command {
	var opts DownloadOptions

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download media without uploading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := service.Download(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, results)
		},
	}
	cmd.Flags().StringVar(&opts.SaveDir, "save-dir", "", "directory for downloaded files (default: temp dir)")
	cmd.Flags().BoolVar(&opts.DownloadVideo, "video", true, "download video besides audio")
	cmd.Flags().BoolVar(&opts.SplitVideo, "split", false, "split oversized videos to fit the size limit")
	cmd.Flags().BoolVar(&opts.Playlist, "playlist", true, "download the whole playlist if the url points to one")
	cmd.Flags().BoolVar(&opts.UseCookie, "cookie", true, "use the cookie file of the url's provider if present")
	return cmd
}

func newUploadCmd() *cobra.Command {
	var (
		link    string
		tgID    string
		replyTo int
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local media file to Telegram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return service.Upload(cmd.Context(), args[0], link, tgID, replyTo)
		},
	}
	cmd.Flags().StringVar(&link, "link", "", "source link embedded into the caption")
	cmd.Flags().StringVar(&tgID, "tg-id", "", "telegram chat id (default: config)")
	cmd.Flags().IntVar(&replyTo, "reply-to", 0, "message id to reply to")
	return cmd
}

func newSyncCmd() *cobra.Command {
	var opts SyncOptions

	cmd := &cobra.Command{
		Use:   "sync <url>",
		Short: "Download media and upload it to Telegram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := service.Sync(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, results)
		},
	}
	cmd.Flags().StringVar(&opts.TargetID, "tg-id", "", "telegram chat id (default: config)")
	cmd.Flags().IntVar(&opts.ReplyTo, "reply-to", 0, "message id to reply to")
	cmd.Flags().StringVar(&opts.SaveDir, "save-dir", "", "directory for downloaded files (default: temp dir)")
	cmd.Flags().BoolVar(&opts.SyncVideo, "video", true, "upload videos")
	cmd.Flags().BoolVar(&opts.SyncAudio, "audio", true, "upload audios")
	cmd.Flags().BoolVar(&opts.Clean, "clean", true, "delete downloaded files after uploading")
	cmd.Flags().BoolVar(&opts.Playlist, "playlist", true, "sync the whole playlist if the url points to one")
	cmd.Flags().BoolVar(&opts.UseCookie, "cookie", true, "use the cookie file of the url's provider if present")
	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewAppServer(service).Start(port)
		},
	}
	cmd.Flags().StringVar(&port, "port", ":18060", "listen address")
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
