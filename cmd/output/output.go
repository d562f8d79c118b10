// Package output provides functions to print messages with optional color formatting
package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pushr-cd/pushr/domain"
)

const (
	Plain   = color.FgWhite
	Success = color.FgGreen
	Warning = color.FgYellow
	Error   = color.FgRed
)

// timeLayout is used for stored timestamps in tables
const timeLayout = "2006-01-02 15:04:05"

var maybeColorize func(kind color.Attribute, tmpl string, a ...any) string

// InitColors sets up color functions based on environment
func InitColors(isColorDisabled bool) {
	if color.NoColor || isColorDisabled {
		maybeColorize = func(kind color.Attribute, tmpl string, a ...any) string {
			return fmt.Sprintf(tmpl, a...)
		}
	} else {
		maybeColorize = func(kind color.Attribute, tmpl string, a ...any) string {
			return color.New(kind).SprintfFunc()(tmpl, a...)
		}
	}
}

// PrintMessage formats a message with color (if enabled) and a trailing newline
func PrintMessage(kind color.Attribute, tmpl string, a ...any) string {
	if maybeColorize == nil || kind == Plain {
		return fmt.Sprintf(tmpl+"\n", a...)
	}
	return fmt.Sprintln(maybeColorize(kind, tmpl, a...))
}

// StatusColor maps a deploy outcome to a terminal color
func StatusColor(status domain.OutcomeStatus) color.Attribute {
	switch status {
	case domain.OutcomeDeployed:
		return Success
	case domain.OutcomeFailed:
		return Error
	case domain.OutcomeNoOp:
		return Plain
	default:
		return Warning
	}
}

func PrintTable(header []string, data [][]string) (string, error) {
	buf := strings.Builder{}

	table := tablewriter.NewTable(
		&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines: tw.Lines{
					ShowHeaderLine: tw.Off,
				},
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}))

	if len(header) > 0 {
		table.Header(header)
	}

	if err := table.Bulk(data); err != nil {
		return "", fmt.Errorf("bulk adding data to table: %w", err)
	}

	if err := table.Render(); err != nil {
		return "", fmt.Errorf("rendering table: %w", err)
	}

	return buf.String(), nil
}

// PrintDeployResult renders the aggregate log followed by a per-application summary
func PrintDeployResult(result domain.AggregateResult) (string, error) {
	if len(result.Results) == 0 {
		return PrintMessage(Plain, "No applications configured."), nil
	}

	var b strings.Builder
	b.WriteString(result.Log)
	b.WriteString("\n\n")

	data := make([][]string, 0, len(result.Results))
	for _, r := range result.Results {
		data = append(data, []string{
			r.Name,
			maybeColor(StatusColor(r.Outcome.Status), r.Outcome.Status.String()),
			shortRevision(r.Revision),
		})
	}

	table, err := PrintTable([]string{"Application", "Status", "Revision"}, data)
	if err != nil {
		return "", fmt.Errorf("printing deploy summary table: %w", err)
	}
	b.WriteString(table)

	if result.Success {
		b.WriteString(PrintMessage(Success, "Deployment run %s succeeded", result.RunID))
	} else {
		b.WriteString(PrintMessage(Error, "Deployment run %s failed", result.RunID))
	}

	return b.String(), nil
}

// PrintApplicationInfo renders the deployed revision of every application
func PrintApplicationInfo(infos []domain.ApplicationInfo) (string, error) {
	if len(infos) == 0 {
		return PrintMessage(Plain, "No applications configured."), nil
	}

	header := []string{"Name", "Slug", "Revision", "Message", "Author", "Deployed"}
	data := make([][]string, 0, len(infos))
	for _, info := range infos {
		data = append(data, []string{
			info.Name,
			info.Slug,
			info.Deployed.Hash,
			info.Deployed.Message,
			info.Deployed.Author,
			info.Deployed.RelativeTime,
		})
	}

	table, err := PrintTable(header, data)
	if err != nil {
		return "", fmt.Errorf("printing application table: %w", err)
	}
	return table, nil
}

// PrintHistory renders past deployments
func PrintHistory(deployments []*domain.Deployment) (string, error) {
	if len(deployments) == 0 {
		return PrintMessage(Plain, "No deployments found."), nil
	}

	header := []string{"Run", "Application", "Status", "Revision", "Created At"}
	data := make([][]string, 0, len(deployments))
	for _, d := range deployments {
		data = append(data, []string{
			d.RunID.String()[:8],
			d.Application,
			maybeColor(StatusColor(d.Status), d.Status.String()),
			shortRevision(d.Revision),
			d.CreatedAt.Local().Format(timeLayout),
		})
	}

	table, err := PrintTable(header, data)
	if err != nil {
		return "", fmt.Errorf("printing history table: %w", err)
	}
	return table, nil
}

func maybeColor(kind color.Attribute, s string) string {
	if maybeColorize == nil || kind == Plain {
		return s
	}
	return maybeColorize(kind, "%s", s)
}

func shortRevision(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}

// CLI flag for disabling color output

// NoColor is a flag that can be used to disable colored output in the CLI.
var NoColor = &noColorFlag{set: false}

type noColorFlag struct {
	set bool
}

func (f *noColorFlag) Set(value string) error {
	// This is a boolean flag, so we ignore the value and just mark it as set
	f.set = true
	return nil
}

func (f *noColorFlag) String() string {
	if f.set {
		return "true"
	}
	return "false"
}

func (f *noColorFlag) Type() string {
	return "bool"
}

// IsSet returns true if the --no-color flag was explicitly set
func (f *noColorFlag) IsSet() bool {
	return f.set
}

// IsBoolFlag tells pflag this is a boolean flag (no argument required)
func (f *noColorFlag) IsBoolFlag() bool {
	return true
}
