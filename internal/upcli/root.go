package upcli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fileupload/pkg/client"
	"fileupload/pkg/config"
)

// options holds the connection settings shared by all subcommands.
type options struct {
	serverAddr string
	timeout    time.Duration
	chunkSize  int
}

// NewRootCmd builds the upcli command tree. Defaults come from the client
// section of the configuration.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	defaults := config.DefaultConfig.Client

	cfg, _, loadErr := config.LoadConfig()
	if loadErr == nil {
		defaults = cfg.Client
	}

	rootCmd := &cobra.Command{
		Use:          "upcli",
		Short:        "FileUpload CLI client",
		Long:         "Command Line Interface to stream local files to a FileUpload service host",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: using default client settings: %v\n", loadErr)
			}
			if opts.serverAddr == "" {
				return fmt.Errorf("server address must not be empty")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.serverAddr, "server", "s", defaults.ServerAddr,
		"Server address in format host:port")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaults.Timeout,
		"Maximum duration of a single upload")
	rootCmd.PersistentFlags().IntVar(&opts.chunkSize, "chunk-size", defaults.ChunkSize,
		"Bytes per streamed message")

	rootCmd.AddCommand(newUploadCmd(opts))

	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) newClient() (*client.UploadClient, error) {
	return client.NewUploadClient(o.serverAddr, o.chunkSize)
}

func openSource(path string) (*os.File, int64, error) {
	if path == "-" {
		return os.Stdin, 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%s is a directory", path)
	}

	return f, info.Size(), nil
}
