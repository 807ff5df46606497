package upcli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newUploadCmd(opts *options) *cobra.Command {
	var (
		name     string
		size     int64
		withName bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file|->",
		Short: "Upload a local file",
		Long: `Stream a local file (or stdin with "-") to the service host.

Without --name the server stores the stream under a generated "<token>.dat"
name. With --name the stream is stored under that path on the server, and
the declared size is sent alongside it.

Examples:
  upcli upload backup.tar
  upcli upload --name reports/q3.csv q3.csv
  upcli upload --keep-name photo.jpg
  cat log.txt | upcli upload --name log.txt --size 1024 -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if withName && name == "" {
				name = filepath.Base(args[0])
			}
			return runUpload(cmd, opts, args[0], name, size)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Destination file name on the server")
	cmd.Flags().BoolVar(&withName, "keep-name", false, "Use the local base name as destination name")
	cmd.Flags().Int64Var(&size, "size", -1, "Declared size in bytes (defaults to the local file size)")

	return cmd
}

func runUpload(cmd *cobra.Command, opts *options, path, name string, size int64) error {
	src, localSize, err := openSource(path)
	if err != nil {
		return err
	}
	if src != os.Stdin {
		defer src.Close()
	}
	if size < 0 {
		size = localSize
	}

	uploadClient, err := opts.newClient()
	if err != nil {
		return err
	}
	defer uploadClient.Close()

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	var ok bool
	if name == "" {
		ok, err = uploadClient.Upload(ctx, src)
	} else {
		ok, err = uploadClient.UploadWithMetadata(ctx, name, size, src)
	}
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("server reported upload failure")
	}

	if name == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Upload succeeded")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Upload succeeded: %s (%d bytes declared)\n", name, size)
	}
	return nil
}
