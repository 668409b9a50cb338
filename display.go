package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Display renders session output. Each method is called once per summary,
// page or report.
type Display interface {
	Header(root string)
	Menu(keys menuKeyMap)
	ScanComplete(result ScanResult, index ExtensionIndex)
	Warnings(warnings []ScanWarning)
	Summary(stats []ExtensionStat, total int)
	Extensions(keys []string)
	Page(key string, page Page[string], pages int)
	DeleteProgress(done, total int, outcome DeleteOutcome)
	DeleteReport(key string, report DeleteReport)
	Info(msg string)
	Error(err error)
}

type styles struct {
	base     lipgloss.Style
	title    lipgloss.Style
	subtitle lipgloss.Style
	status   lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	danger   lipgloss.Style
	warning  lipgloss.Style
	prompt   lipgloss.Style
	chip     lipgloss.Style
}

var ui = styles{
	base: lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")),
	title:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
	subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	status:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
	danger:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
	chip:     lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Padding(0, 1),
}

const maxWarningsShown = 10

type termDisplay struct {
	w        io.Writer
	help     help.Model
	progress progress.Model
}

func newTermDisplay(w io.Writer) *termDisplay {
	h := help.New()
	h.ShowAll = true
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	return &termDisplay{w: w, help: h, progress: bar}
}

func (d *termDisplay) println(s string) {
	fmt.Fprintln(d.w, s)
}

func (d *termDisplay) Header(root string) {
	title := ui.title.Render("extsweep")
	subtitle := ui.subtitle.Render("Files by extension")
	line := lipgloss.JoinHorizontal(lipgloss.Left, title, " ", subtitle)
	d.println(lipgloss.JoinVertical(lipgloss.Left, line, ui.muted.Render("Root: "+root)))
}

func (d *termDisplay) Menu(keys menuKeyMap) {
	d.println("")
	d.println(d.help.View(keys))
}

func (d *termDisplay) ScanComplete(result ScanResult, index ExtensionIndex) {
	parts := []string{
		fmt.Sprintf("Files: %d", index.Len()),
		fmt.Sprintf("Extensions: %d", len(index.Keys())),
		fmt.Sprintf("Dirs: %d", result.Visited),
		fmt.Sprintf("Scan: %s", result.Elapsed.Truncate(10*time.Millisecond)),
	}
	if len(result.Warnings) > 0 {
		parts = append(parts, ui.warning.Render(fmt.Sprintf("Warnings: %d", len(result.Warnings))))
	}
	d.println(ui.status.Render(strings.Join(parts, " · ")))
}

func (d *termDisplay) Warnings(warnings []ScanWarning) {
	for i, w := range warnings {
		if i == maxWarningsShown {
			d.println(ui.muted.Render(fmt.Sprintf("… and %d more", len(warnings)-maxWarningsShown)))
			break
		}
		d.println(ui.warning.Render("warning: ") + w.String())
	}
}

func (d *termDisplay) Summary(stats []ExtensionStat, total int) {
	if len(stats) == 0 {
		d.println(ui.muted.Render("No files found."))
		return
	}
	d.println(ui.base.Render(summaryTable(stats).View()))
	d.println(ui.muted.Render(fmt.Sprintf("%d file(s) in %d extension(s)", total, len(stats))))
}

func summaryTable(stats []ExtensionStat) table.Model {
	columns := []table.Column{
		{Title: "Extension", Width: 14},
		{Title: "Files", Width: 8},
		{Title: "Size", Width: 10},
		{Title: "Category", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(summaryRows(stats)),
		table.WithFocused(false),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("238")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	t.SetHeight(len(stats) + 2)
	return t
}

func summaryRows(stats []ExtensionStat) []table.Row {
	rows := make([]table.Row, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, table.Row{
			keyLabel(stat.Key),
			strconv.Itoa(stat.Count),
			formatBytes(stat.TotalSize),
			stat.Category,
		})
	}
	return rows
}

func (d *termDisplay) Extensions(keys []string) {
	if len(keys) == 0 {
		d.println(ui.muted.Render("No extensions indexed."))
		return
	}
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		labels = append(labels, keyLabel(key))
	}
	d.println(strings.Join(labels, "  "))
}

func (d *termDisplay) Page(key string, page Page[string], pages int) {
	d.println(ui.accent.Render(fmt.Sprintf("%s · page %d/%d", keyLabel(key), page.Number, pages)))
	for _, path := range page.Items {
		d.println("  " + path)
	}
}

func (d *termDisplay) DeleteProgress(done, total int, outcome DeleteOutcome) {
	prefix := ui.muted.Render(fmt.Sprintf("[%d/%d]", done, total))
	if outcome.Deleted() {
		d.println(prefix + " Moved to trash: " + outcome.Path)
		return
	}
	d.println(prefix + " " + ui.danger.Render("Failed: ") + outcome.Err.Error())
}

func (d *termDisplay) DeleteReport(key string, report DeleteReport) {
	total := len(report.Outcomes)
	percent := 1.0
	if total > 0 {
		percent = float64(report.Deleted()) / float64(total)
	}
	d.println(d.progress.ViewAs(percent))
	if report.Failed() > 0 {
		d.println(ui.warning.Render(fmt.Sprintf("Moved %d %s file(s) to trash, %d failed", report.Deleted(), keyLabel(key), report.Failed())))
		return
	}
	d.println(ui.accent.Render(fmt.Sprintf("Moved %d %s file(s) to trash", report.Deleted(), keyLabel(key))))
}

func (d *termDisplay) Info(msg string) {
	d.println(ui.status.Render(msg))
}

func (d *termDisplay) Error(err error) {
	d.println(ui.danger.Render(fmt.Sprintf("Error: %v", err)))
}

// keyLabel renders an extension key for people: ".txt", or "(none)".
func keyLabel(key string) string {
	if key == "" {
		return "(none)"
	}
	return "." + key
}

func formatBytes(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	value := float64(size)
	for _, unit := range units {
		value /= 1024
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
	}
	return fmt.Sprintf("%.1f %s", value, units[len(units)-1])
}
