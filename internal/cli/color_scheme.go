package cli

import (
	"image/color"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"

	"github.com/macropower/netsense/api/v1beta1/configs"
	"github.com/macropower/netsense/pkg/config"
	"github.com/macropower/netsense/pkg/render"
)

// ColorSchemeFunc derives the help and error colors from the chroma style
// of the user's configuration, so they agree with highlighted output.
func ColorSchemeFunc(c lipgloss.LightDarkFunc) fang.ColorScheme {
	return StyleColorScheme(configuredStyle(configs.GetPath()), c)
}

func configuredStyle(path string) string {
	cl, err := config.NewLoaderFromFile(path, configs.New, configs.DefaultValidator)
	if err != nil {
		return render.DefaultStyle
	}

	cfg, err := cl.Load()
	if err != nil {
		return render.DefaultStyle
	}

	return cfg.Output.Style
}

// StyleColorScheme builds a [fang.ColorScheme] from the named chroma style.
// Token types the style leaves unset fall back to charmtone colors.
func StyleColorScheme(name string, c lipgloss.LightDarkFunc) fang.ColorScheme {
	s := styles.Get(name)

	pick := func(fallback color.Color, types ...chroma.TokenType) color.Color {
		for _, t := range types {
			e := s.Get(t)
			if e.Colour.IsSet() {
				return lipgloss.Color(e.Colour.String())
			}
		}

		return fallback
	}

	text := c(charmtone.Charcoal, charmtone.Ash)

	return fang.ColorScheme{
		Base:           text,
		Title:          pick(charmtone.Charple, chroma.NameFunction, chroma.Keyword),
		Codeblock:      c(charmtone.Salt, lipgloss.Color("#2F2E36")),
		Program:        pick(charmtone.Malibu, chroma.NameBuiltin, chroma.NameFunction),
		Command:        pick(charmtone.Malibu, chroma.Keyword),
		DimmedArgument: pick(charmtone.Squid, chroma.Comment),
		Comment:        pick(charmtone.Squid, chroma.Comment),
		Flag:           pick(charmtone.Guac, chroma.NameAttribute, chroma.NameTag),
		Argument:       text,
		Description:    text,
		FlagDefault:    pick(charmtone.Smoke, chroma.LiteralNumber),
		QuotedString:   pick(charmtone.Coral, chroma.LiteralString),
		ErrorHeader: [2]color.Color{
			charmtone.Butter,
			charmtone.Cherry,
		},
	}
}
