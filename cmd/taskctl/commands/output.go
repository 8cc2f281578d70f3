package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/benvon/taskboard/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// render writes v in the selected structured format, or calls table for the
// default human readable form
func (a *app) render(w io.Writer, v any, table func(w io.Writer) error) error {
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if err := table(tw); err != nil {
			return err
		}
		return tw.Flush()
	}
}

func projectTable(projects []models.Project) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(projects) == 0 {
			_, err := fmt.Fprintln(w, "No projects")
			return err
		}
		_, _ = fmt.Fprintln(w, "ID\tNAME\tSECTIONS\tCOMPLETED")
		for _, p := range projects {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%t\n", p.ID, p.Name, len(p.Sections), p.Completed)
		}
		return nil
	}
}

func taskTable(tasks []models.Task) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(tasks) == 0 {
			_, err := fmt.Fprintln(w, "No tasks")
			return err
		}
		_, _ = fmt.Fprintln(w, "ID\tTITLE\tPROJECT\tSECTION\tSTATUS\tPRIORITY\tDUE")
		for _, t := range tasks {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Title, t.ProjectID, t.SectionID, t.Status, dash(string(t.Priority)), dash(t.DueDate))
		}
		return nil
	}
}

func deadlineTable(deadlines []models.Deadline) func(io.Writer) error {
	return func(w io.Writer) error {
		if len(deadlines) == 0 {
			_, err := fmt.Fprintln(w, "No deadlines")
			return err
		}
		_, _ = fmt.Fprintln(w, "ID\tTITLE\tDUE\tPRIORITY\tSTATUS\tREMINDER")
		for _, d := range deadlines {
			reminder := "-"
			if d.Reminder != nil && d.Reminder.Enabled {
				reminder = strconv.FormatFloat(d.Reminder.Interval, 'f', -1, 64) + "h"
				if d.Reminder.Notified {
					reminder += " (sent)"
				}
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.Title, d.DueDate, d.Priority, d.Status, reminder)
		}
		return nil
	}
}

// fieldTable prints label/value pairs, one per row
func fieldTable(rows ...[2]string) func(io.Writer) error {
	return func(w io.Writer) error {
		for _, row := range rows {
			if _, err := fmt.Fprintf(w, "%s:\t%s\n", row[0], row[1]); err != nil {
				return err
			}
		}
		return nil
	}
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func pct(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64) + "%"
}
