package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/benvon/todo-assistant/internal/models"
	"github.com/spf13/cobra"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	var contextPairs []string

	cmd := &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Send a message to the assistant",
		Long:  "Send a conversational message, optionally with context given as key=value pairs. Values that parse as JSON are sent as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chatContext, err := parseContext(contextPairs)
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			resp, err := opts.client().Chat(ctx, models.ChatRequest{Message: args[0], Context: chatContext})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Response)
			fmt.Fprintln(out, gray(fmt.Sprintf("model: %s  tokens: %d prompt + %d completion = %d",
				resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&contextPairs, "context", nil, "Context entry as key=value (repeatable)")

	return cmd
}

// parseContext turns key=value pairs into a context object
func parseContext(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	result := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --context %q: expected key=value", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			result[key] = decoded
			continue
		}
		result[key] = value
	}
	return result, nil
}
