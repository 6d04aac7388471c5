package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/muesli/termenv"

	"github.com/macropower/netsense/api/v1beta1/configs"
	"github.com/macropower/netsense/pkg/render"
)

// showConfig prints the active configuration as YAML, highlighted when out
// is a color terminal.
func showConfig(out io.Writer, cfg *configs.Config, ca *CommonArgs) error {
	slog.Info("active configuration", slog.String("path", ca.configPath()))

	b, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	text := string(b)

	profile := ca.colorProfile(out)
	if profile != termenv.Ascii {
		h := render.NewHighlighter(cfg.Output.Style, profile, render.WithLanguage("yaml"))

		pretty, err := h.Highlight(text)
		if err != nil {
			slog.Debug("highlight config", slog.Any("error", err))
		} else {
			text = pretty
		}
	}

	mustN(fmt.Fprint(out, text))

	return nil
}
