package marketplace

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hay-kot/skillshop/internal/core/config"
	"github.com/hay-kot/skillshop/internal/styles"
	"github.com/hay-kot/skillshop/pkg/executil"
	"github.com/hay-kot/skillshop/pkg/tmpl"
)

// HookRunner executes user configured shell hooks.
type HookRunner struct {
	log      zerolog.Logger
	executor executil.Executor
	stdout   io.Writer
	stderr   io.Writer
}

// NewHookRunner creates a new HookRunner.
func NewHookRunner(log zerolog.Logger, executor executil.Executor, stdout, stderr io.Writer) *HookRunner {
	return &HookRunner{
		log:      log,
		executor: executor,
		stdout:   stdout,
		stderr:   stderr,
	}
}

// RunPostCheckout renders and runs every command in order, stopping at the first
// failure. The order is also exposed through SKILLSHOP_* environment variables.
func (h *HookRunner) RunPostCheckout(ctx context.Context, commands []string, data config.HookTemplateData) error {
	if len(commands) == 0 {
		return nil
	}

	h.log.Debug().
		Str("order", data.OrderID).
		Int("hook_count", len(commands)).
		Msg("running post checkout hooks")

	env := []string{
		"SKILLSHOP_ORDER_ID=" + data.OrderID,
		"SKILLSHOP_CONFIRMATION_CODE=" + data.ConfirmationCode,
		"SKILLSHOP_ORDER_TOTAL=" + strconv.FormatFloat(data.Total, 'f', 2, 64),
		"SKILLSHOP_CURRENCY=" + data.Currency,
	}

	for i, raw := range commands {
		cmd, err := tmpl.Render(raw, data)
		if err != nil {
			return fmt.Errorf("render hook %d: %w", i+1, err)
		}

		h.printCommandHeader(i+1, len(commands), cmd)

		if err := h.executor.Run(ctx, executil.Shell(cmd, env...), h.stdout, h.stderr); err != nil {
			return fmt.Errorf("run hook %q: %w", cmd, err)
		}

		_, _ = fmt.Fprintln(h.stdout)
	}

	return nil
}

func (h *HookRunner) printCommandHeader(n, total int, cmd string) {
	divider := styles.DividerStyle.Render(strings.Repeat("─", 50))
	header := styles.CommandHeaderStyle.Render("post_checkout")
	label := styles.DividerStyle.Render(fmt.Sprintf("[%d/%d]", n, total))
	command := styles.CommandStyle.Render(cmd)

	_, _ = fmt.Fprintln(h.stdout)
	_, _ = fmt.Fprintln(h.stdout, divider)
	_, _ = fmt.Fprintf(h.stdout, "%s %s %s\n", header, label, command)
	_, _ = fmt.Fprintln(h.stdout, divider)
}
