// Package observability provides logging setup and formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio-site/internal/adapt"
	"github.com/jonathan/portfolio-site/internal/catalog"
	"github.com/jonathan/portfolio-site/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer writes boxed summaries of analysis results and catalog content.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintAnalysis outputs the fields extracted from a job posting screenshot.
func (p *Printer) PrintAnalysis(record *types.AnalysisRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Company:  %s\n", record.Company)
	fmt.Fprintf(&sb, "Role:     %s\n", record.Role)
	if record.Vibe != "" {
		fmt.Fprintf(&sb, "Vibe:     %s\n", record.Vibe)
	}
	if record.Experience != "" {
		fmt.Fprintf(&sb, "Exp:      %s\n", record.Experience)
	}
	sb.WriteString("\n")

	writeList(&sb, "Key Skills", record.KeySkills, maxItemsToShow)
	writeList(&sb, "Keywords", record.TargetKeywords, 3)

	p.printBox("JOB POSTING ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintHero outputs the adapted hero copy and its code snippet.
func (p *Printer) PrintHero(hero *adapt.Hero) {
	if hero == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "For:       %s\n", hero.Company)
	fmt.Fprintf(&sb, "Subtitle:  %s\n", hero.Subtitle)
	fmt.Fprintf(&sb, "Keywords:  %s\n", hero.Keywords)
	sb.WriteString("\n")
	sb.WriteString(hero.Description)
	sb.WriteString("\n\n")
	sb.WriteString(hero.Snippet.Text())

	p.printBox("ADAPTED HERO", sb.String())
}

// PrintCatalog outputs the project list in one language.
func (p *Printer) PrintCatalog(entries []catalog.Entry) {
	if len(entries) == 0 {
		p.printBox("PROJECTS", "No projects")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d projects:\n\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(&sb, "#%d  %s (%s)\n", i+1, e.Title, e.ID)
		if e.Summary != "" {
			fmt.Fprintf(&sb, "    %s\n", e.Summary)
		}
		fmt.Fprintf(&sb, "    Images: %d", len(e.Images))
		if len(e.Tags) > 0 {
			fmt.Fprintf(&sb, "  Tags: %s", strings.Join(e.Tags, ", "))
		}
		if i < len(entries)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox("PROJECTS", sb.String())
}

// PrintStack outputs the technology list.
func (p *Printer) PrintStack(items []types.StackItem) {
	if len(items) == 0 {
		return
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	var sb strings.Builder
	writeList(&sb, "Technologies", names, len(names))
	p.printBox("STACK", strings.TrimSuffix(sb.String(), "\n"))
}
