package builtin

import (
	"context"
	"fmt"

	"github.com/botkit/bot"
)

const defaultSince = "1 day ago"

// SummarizeCodeChangesTool returns the definition of summarize_code_changes.
func SummarizeCodeChangesTool() bot.Tool {
	return bot.Tool{
		Name:        "summarize_code_changes",
		Description: "Get a summary of code changes in the current git repository since a specific time.",
		Parameters: []bot.Parameter{
			{Name: "since", Type: bot.ParamString, Description: `Timeframe to summarize (e.g., "1 day ago", "2 weeks ago", "yesterday")`},
		},
	}
}

type codeSummary struct {
	Summary string `json:"summary"`
}

func summarizeCodeChanges(repo bot.Repository) bot.HandlerFunc {
	return func(ctx context.Context, args bot.Args) (any, error) {
		since := args.String("since", defaultSince)
		if since == "" {
			since = defaultSince
		}
		diff, err := repo.DiffStat(ctx, since)
		if err != nil {
			return nil, err
		}
		return codeSummary{Summary: fmt.Sprintf("Here are the file changes since %s:\n%s", since, diff)}, nil
	}
}
