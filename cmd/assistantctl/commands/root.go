package commands

import (
	"context"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	defaultServerURL = "http://localhost:5000"
	// defaultTimeout sits above the server's upstream timeout
	defaultTimeout = 90 * time.Second
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

type rootOptions struct {
	server  string
	timeout time.Duration
	noColor bool
}

func (o *rootOptions) client() *Client {
	return NewClient(o.server, o.timeout)
}

func (o *rootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, o.timeout)
}

// NewRootCmd builds the assistantctl command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "assistantctl",
		Short:         "Command-line client for the todo AI assistant",
		Long:          "Send chat messages, extract tasks and check health against a running todo AI assistant service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	server := os.Getenv("ASSISTANT_URL")
	if server == "" {
		server = defaultServerURL
	}
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", server, "Assistant service base URL (env ASSISTANT_URL)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newChatCmd(opts))
	rootCmd.AddCommand(newTasksCmd(opts))
	rootCmd.AddCommand(newHealthCmd(opts))

	return rootCmd
}
