package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/skillshop/internal/core/storage"
	"github.com/hay-kot/skillshop/internal/printer"
)

type StateCmd struct {
	flags  *Flags
	format string
}

// NewStateCmd creates the state command.
func NewStateCmd(flags *Flags) *StateCmd {
	return &StateCmd{flags: flags}
}

// Register adds the state command to the application.
func (cmd *StateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "state",
		Usage:       "List the raw entries in the local state file",
		UsageText:   "skillshop state [--format json]",
		Description: "Prints every stored key with its size and last update. The token value is never printed.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

type stateEntry struct {
	Key       string `json:"key"`
	Bytes     int    `json:"bytes"`
	Value     string `json:"value,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

func (cmd *StateCmd) run(ctx context.Context, c *cli.Command) error {
	entries, err := cmd.flags.Store.List(ctx, "")
	if err != nil {
		return fmt.Errorf("list state: %w", err)
	}

	rows := make([]stateEntry, 0, len(entries))
	for _, e := range entries {
		row := stateEntry{
			Key:       e.Key,
			Bytes:     len(e.Value),
			Value:     e.Value,
			UpdatedAt: e.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		if e.Key == storage.KeyToken {
			row.Value = ""
		}
		rows = append(rows, row)
	}

	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		printer.Ctx(ctx).Infof("No stored state in %s", cmd.flags.Config.StateFile())
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tBYTES\tUPDATED\tVALUE")
	for _, r := range rows {
		value := r.Value
		if len(value) > 60 {
			value = value[:57] + "..."
		}
		if r.Key == storage.KeyToken {
			value = "(hidden)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.Key, r.Bytes, r.UpdatedAt, value)
	}
	return w.Flush()
}
