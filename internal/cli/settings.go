package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/car-finder/internal/settings"
)

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [toggle|light|dark]",
		Short:     "Show or change the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"toggle", settings.ThemeLight, settings.ThemeDark},
		RunE:      runTheme,
	}
}

func newLangCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang [code]",
		Short: "Show or change the language (en, fr, ar)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLang,
	}
}

func runTheme(cmd *cobra.Command, args []string) error {
	return withSettings(cmd, func(ctx context.Context, svc *settings.Service) (settings.Preferences, error) {
		switch {
		case len(args) == 0:
			return svc.Load(ctx)
		case args[0] == "toggle":
			return svc.ToggleTheme(ctx)
		default:
			return svc.SetTheme(ctx, args[0])
		}
	})
}

func runLang(cmd *cobra.Command, args []string) error {
	return withSettings(cmd, func(ctx context.Context, svc *settings.Service) (settings.Preferences, error) {
		if len(args) == 0 {
			return svc.Load(ctx)
		}
		return svc.SetLanguage(ctx, args[0])
	})
}

// withSettings opens the settings store, runs fn and prints the resulting
// preferences.
func withSettings(cmd *cobra.Command, fn func(context.Context, *settings.Service) (settings.Preferences, error)) error {
	ctx := cmd.Context()
	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer closeBackend(b)

	p, err := fn(ctx, settings.NewService(b.Settings))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, struct {
			settings.Preferences
			RTL bool `json:"rtl"`
		}{p, p.RTL()})
	}

	dir := "ltr"
	if p.RTL() {
		dir = "rtl"
	}
	_, err = fmt.Fprintf(out, "Theme:     %s\nLanguage:  %s (%s)\n", p.Theme, p.Language, dir)
	return err
}
