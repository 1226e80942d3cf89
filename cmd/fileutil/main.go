package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Abraxas-365/fileutil/internal/server"
	"github.com/Abraxas-365/fileutil/pkg/config"
	"github.com/Abraxas-365/fileutil/pkg/fsx"
	"github.com/Abraxas-365/fileutil/pkg/logx"
	"github.com/Abraxas-365/fileutil/pkg/pathx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newContainer reads the configuration and builds the storage container
func newContainer(cmd *cobra.Command) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	c, err := NewContainer(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return c, nil
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "fileutil",
		Short:        "Classify paths and manage files on local disk, memory or S3",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.SetDefaultLogger(logx.NewLogger(logx.LoadFromEnv()))
			if verbose {
				logx.SetLevel(logx.LevelDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newClassifyCmd(),
		newListCmd(),
		newCountCmd(),
		newUniqueCmd(),
		newCopyCmd(),
		newCatCmd(),
		newWriteCmd(),
		newAppendJSONCmd(),
		newServeCmd(),
	)
	return root
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <path>...",
		Short: "Print the file object of each path as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objects := make([]*pathx.FileObject, 0, len(args))
			for _, p := range args {
				objects = append(objects, pathx.GetFileObject(p))
			}
			return printJSON(cmd.OutOrStdout(), objects)
		},
	}
}

func newListCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "ls <dir>",
		Short: "List the regular, non-hidden files of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd)
			if err != nil {
				return err
			}
			files, err := c.Helper.GetFiles(cmd.Context(), args[0], patternOption(pattern)...)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "glob the file names must match")
	return cmd
}

func newCountCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "count <dir>",
		Short: "Count the files ls would print",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd)
			if err != nil {
				return err
			}
			n, err := c.Helper.GetFileCount(cmd.Context(), args[0], patternOption(pattern)...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(n))
			return nil
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "glob the file names must match")
	return cmd
}

func newUniqueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unique <dir> <ext>",
		Short: "Print a fresh file name for dir",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd)
			if err != nil {
				return err
			}
			name, err := c.Helper.GetUniqueFilename(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd)
			if err != nil {
				return err
			}
			dst, err := c.Helper.Copy(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dst)
			return nil
		},
	}
}

func newCatCmd() *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "cat <path>...",
		Short: "Print file contents in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if encoding == "" {
				contents, err := c.Helper.ReadFiles(cmd.Context(), args...)
				if err != nil {
					return err
				}
				for _, data := range contents {
					if _, err := out.Write(data); err != nil {
						return err
					}
				}
				return nil
			}

			enc, err := fsx.ParseEncoding(encoding)
			if err != nil {
				return err
			}
			texts, err := c.Helper.ReadFilesEncoded(cmd.Context(), enc, args...)
			if err != nil {
				return err
			}
			for _, text := range texts {
				fmt.Fprintln(out, text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "print contents as utf8, ascii, latin1, base64 or hex")
	return cmd
}

func newWriteCmd() *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "write <path> <data|->",
		Short: "Write data to a file, creating its directory",
		Long:  "Write data to a file, creating its directory. A data argument of \"-\" reads standard input.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := fsx.ParseEncoding(encoding)
			if err != nil {
				return err
			}

			data := []byte(args[1])
			if args[1] == "-" {
				if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			c, err := newContainer(cmd)
			if err != nil {
				return err
			}
			written, err := c.Helper.WriteFile(cmd.Context(), args[0], data, fsx.WithEncoding(enc))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), written)
			return nil
		},
	}
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "utf8", "encoding of data: utf8, ascii, latin1, base64 or hex")
	return cmd
}

func newAppendJSONCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "append-json <path> <json>",
		Short: "Append a JSON value to an array inside a JSON document",
		Long: `Append a JSON value to an array inside a JSON document.
Without --key the value goes to the top-level "data" array.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any
			if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
				return fsx.InvalidArgumentError("json", err)
			}

			c, err := newContainer(cmd)
			if err != nil {
				return err
			}

			var written string
			if key != "" {
				written, err = c.Helper.AppendJSONAt(cmd.Context(), args[0], key, value)
			} else {
				written, err = c.Helper.AppendJSON(cmd.Context(), args[0], value, fsx.AppendToArray("data"))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), written)
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "path of the target array, e.g. items or meta.tags")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the file helpers over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd)
			if err != nil {
				return err
			}

			logx.WithFields(logx.Fields{
				"storage": c.Config.Storage.Mode,
				"port":    c.Config.Server.Port,
			}).Info("starting fileutil server")

			srv := server.New(c.Helper, c.Config.Server,
				server.WithPresignExpiration(c.Config.Storage.PresignExpiration),
			)
			return srv.Run(cmd.Context())
		},
	}
}

func patternOption(pattern string) []fsx.ListOption {
	if pattern == "" {
		return nil
	}
	return []fsx.ListOption{fsx.WithPattern(pattern)}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
