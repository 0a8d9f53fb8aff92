package cli

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/jnav/internal/ui/pretty"
)

// Command groups shown in the root help.
const (
	groupDocuments = "documents"
	groupSetup     = "setup"
)

const helpTemplate = `{{with (or .Long .Short)}}{{trimTrailingWhitespaces .}}

{{end}}`

const usageTemplate = `{{heading "Usage:"}}{{if .Runnable}}
  {{command .UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}{{range commandGroups .}}

{{heading .Title}}{{range .Commands}}
  {{command (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flagTable .LocalFlags}}{{end}}{{if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flagTable .InheritedFlags}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{command (print .CommandPath " [command] --help")}}" for more information about a command.{{end}}
`

// helpGroup is a titled list of subcommands.
type helpGroup struct {
	Title    string
	Commands []*cobra.Command
}

// HelpFormatter renders styled help for a command tree. Colors are decided at
// render time from the color mode and the command's output.
type HelpFormatter struct {
	colorMode func() string
}

// NewHelpFormatter creates a help formatter. colorMode returns auto, always or
// never; nil means auto.
func NewHelpFormatter(colorMode func() string) *HelpFormatter {
	if colorMode == nil {
		colorMode = func() string { return "auto" }
	}
	return &HelpFormatter{colorMode: colorMode}
}

// ApplyToCommand installs the styled help and usage output on cmd. Subcommands
// inherit it.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.render(command, usageTemplate)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.render(command, helpTemplate+usageTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) render(cmd *cobra.Command, text string) error {
	styles := pretty.NewStyles(pretty.IsColorEnabled(h.colorMode(), cmd.OutOrStdout()))

	tmpl, err := template.New("help").Funcs(template.FuncMap{
		"heading":                 styles.SummaryTitle.Render,
		"command":                 styles.Bold.Render,
		"commandGroups":           commandGroups,
		"flagTable":               func(set *pflag.FlagSet) string { return flagTable(styles, set) },
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}).Parse(text)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}

	if err := tmpl.Execute(cmd.OutOrStdout(), cmd); err != nil {
		return fmt.Errorf("render help: %w", err)
	}
	return nil
}

// commandGroups lists the available subcommands of cmd by group, in the order
// the groups were added. Ungrouped commands such as help come last.
func commandGroups(cmd *cobra.Command) []helpGroup {
	var groups []helpGroup
	for _, group := range cmd.Groups() {
		groups = append(groups, helpGroup{Title: group.Title})
	}
	other := helpGroup{Title: "Additional Commands:"}

	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() && sub.Name() != "help" {
			continue
		}
		placed := false
		for i, group := range cmd.Groups() {
			if sub.GroupID == group.ID {
				groups[i].Commands = append(groups[i].Commands, sub)
				placed = true
				break
			}
		}
		if !placed {
			other.Commands = append(other.Commands, sub)
		}
	}

	if len(groups) == 0 {
		other.Title = "Available Commands:"
	}

	var result []helpGroup
	for _, group := range append(groups, other) {
		if len(group.Commands) > 0 {
			result = append(result, group)
		}
	}
	return result
}

// flagTable renders one line per visible flag: the names and value type,
// then the usage text with a non-zero default.
func flagTable(styles *pretty.Styles, set *pflag.FlagSet) string {
	type flagRow struct {
		names   string
		varName string
		usage   string
	}

	var rows []flagRow
	width := 0
	set.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}

		row := flagRow{names: "    --" + flag.Name}
		if flag.Shorthand != "" {
			row.names = "-" + flag.Shorthand + ", --" + flag.Name
		}
		row.varName, row.usage = pflag.UnquoteUsage(flag)
		if def := flagDefault(flag); def != "" {
			row.usage += " (default " + def + ")"
		}

		plainWidth := len(row.names)
		if row.varName != "" {
			plainWidth += 1 + len(row.varName)
		}
		width = max(width, plainWidth)
		rows = append(rows, row)
	})

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		plainWidth := len(row.names)
		line := "  " + styles.Array.Render(row.names)
		if row.varName != "" {
			plainWidth += 1 + len(row.varName)
			line += " " + styles.Dim.Render(row.varName)
		}
		line += strings.Repeat(" ", width-plainWidth+3) + row.usage
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// flagDefault formats the default of flag, or "" for zero values.
func flagDefault(flag *pflag.Flag) string {
	switch flag.DefValue {
	case "", "0", "false", "[]":
		return ""
	}
	if flag.Value.Type() == "string" {
		return fmt.Sprintf("%q", flag.DefValue)
	}
	return flag.DefValue
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
