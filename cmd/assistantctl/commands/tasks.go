package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/benvon/todo-assistant/internal/models"
	"github.com/spf13/cobra"
)

func newTasksCmd(opts *rootOptions) *cobra.Command {
	var rawJSON bool

	cmd := &cobra.Command{
		Use:   "tasks MESSAGE",
		Short: "Extract tasks from a message",
		Long:  "Ask the assistant to expand a message into dated task occurrences and print them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			resp, err := opts.client().ExtractTasks(ctx, args[0])
			if err != nil {
				var apiErr *APIError
				if errors.As(err, &apiErr) && apiErr.Raw != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), yellow("Model reply could not be parsed:"))
					fmt.Fprintln(cmd.ErrOrStderr(), *apiErr.Raw)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if rawJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			return printTasks(out, resp)
		},
	}

	cmd.Flags().BoolVar(&rawJSON, "json", false, "Print the tasks as returned by the service")

	return cmd
}

// printTasks renders a table. Elements that do not look like tasks are printed as JSON.
func printTasks(out io.Writer, resp *models.TaskExtractionResponse) error {
	if len(resp.Tasks) == 0 {
		fmt.Fprintln(out, "No tasks found")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, bold("DATE")+"\t"+bold("TIME")+"\t"+bold("TASK")+"\t"+bold("DURATION"))
	for _, raw := range resp.Tasks {
		var task models.ExtractedTask
		if err := json.Unmarshal(raw, &task); err != nil || task.Task == "" {
			fmt.Fprintf(tw, "-\t-\t%s\t-\n", string(raw))
			continue
		}
		duration := task.Duration
		if duration == "" {
			duration = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", task.Date, task.Time, task.Task, duration)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	tasks, err := resp.DecodeTasks()
	if err == nil {
		fmt.Fprintf(out, "\n%d occurrence(s) of %d task(s)\n", len(resp.Tasks), len(models.UniqueTaskNames(tasks)))
	}
	return nil
}
