// Package cli holds the command-line surface of the tools: urfave/cli apps,
// the interactive menu and the localized console output.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"auditools/internal/domain"
	"auditools/internal/ports/output"
	"auditools/pkg/tz"
)

// ErrFailed is returned by an action whose failure was already printed.
var ErrFailed = errors.New("command failed")

var (
	titleStyle = color.New(color.FgCyan, color.Bold)
	okStyle    = color.New(color.FgGreen)
	warnStyle  = color.New(color.FgYellow)
	failStyle  = color.New(color.FgRed)
	plainStyle = color.New(color.Reset)
)

// Console prints localized messages.
type Console struct {
	out    io.Writer
	t      output.T
	locale string
}

func NewConsole(out io.Writer, t output.T, locale string) *Console {
	return &Console{out: out, t: t, locale: locale}
}

func (c *Console) msg(key string, data map[string]any) string {
	return c.t.T(c.locale, key, data)
}

func (c *Console) print(style *color.Color, key string, data map[string]any) {
	_, _ = style.Fprintln(c.out, c.msg(key, data))
}

func (c *Console) Title(key string) {
	rule := strings.Repeat("=", 50)
	_, _ = fmt.Fprintln(c.out, rule)
	c.print(titleStyle, key, nil)
	_, _ = fmt.Fprintln(c.out, rule)
}

func (c *Console) Section(key string, data map[string]any) {
	_, _ = fmt.Fprintln(c.out)
	c.print(titleStyle, key, data)
}

func (c *Console) OK(key string, data map[string]any)    { c.print(okStyle, key, data) }
func (c *Console) Warn(key string, data map[string]any)  { c.print(warnStyle, key, data) }
func (c *Console) Fail(key string, data map[string]any)  { c.print(failStyle, key, data) }
func (c *Console) Plain(key string, data map[string]any) { c.print(plainStyle, key, data) }

// ErrorText localizes the domain error wrapped in err, or returns its text.
func (c *Console) ErrorText(err error) string {
	if code := domain.Code(err); code != "" {
		return c.msg("error_"+code, nil)
	}
	return err.Error()
}

func yesNo(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func formatScore(score *float64) string {
	if score == nil {
		return "N/A"
	}
	return humanize.Ftoa(*score)
}

// formatWhen shows a date in Paris time with a relative hint.
func formatWhen(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return fmt.Sprintf("%s (%s)", tz.Format(*t), humanize.Time(*t))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
