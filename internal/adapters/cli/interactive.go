package cli

import (
	"errors"
	"io"

	"github.com/manifoldco/promptui"
	ucli "github.com/urfave/cli/v2"

	"auditools/internal/application"
)

// chooser asks the user to pick one item and returns its index.
type chooser func(label string, items []string) (int, error)

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func promptChooser(in io.ReadCloser, out io.Writer) chooser {
	return func(label string, items []string) (int, error) {
		sel := &promptui.Select{
			Label: label,
			Items: items,
			Size:  len(items),
			Stdin: in,
		}
		if out != nil {
			sel.Stdout = nopWriteCloser{out}
		}
		i, _, err := sel.Run()
		return i, err
	}
}

type menuEntry struct {
	key string
	run step
}

func (rt *Runtime) menu() []menuEntry {
	return []menuEntry{
		{"menu_check", rt.check},
		{"menu_test", rt.test},
		{"menu_structure", rt.structure},
		{"menu_setup", rt.setup},
		{"menu_cleanup", func(cctx *ucli.Context, svc *application.AnalysisService) bool {
			return rt.cleanup(cctx, svc, rt.Config.CleanupDays)
		}},
		{"menu_export", func(cctx *ucli.Context, svc *application.AnalysisService) bool {
			return rt.export(cctx, svc, rt.Config.StatsPath, "")
		}},
		{"menu_repair", rt.repair},
		{"menu_all", rt.all},
	}
}

// interactive loops on the action menu until the user picks "quit" or
// interrupts the prompt. A failing action does not end the loop.
func (rt *Runtime) interactive(cctx *ucli.Context, choose chooser) error {
	svc, closeAll, err := rt.openAnalysis(cctx.Context, true, true)
	if err != nil {
		return err
	}
	defer closeAll()

	c := rt.console(cctx)
	c.Title("manage_title")

	entries := rt.menu()
	items := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		items = append(items, c.msg(e.key, nil))
	}
	items = append(items, c.msg("menu_quit", nil))

	for {
		if err := cctx.Context.Err(); err != nil {
			return err
		}
		i, err := choose(c.msg("menu_label", nil), items)
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || (err == nil && i == len(entries)) {
			c.Section("menu_bye", nil)
			return nil
		}
		if err != nil {
			return err
		}
		entries[i].run(cctx, svc)
	}
}
