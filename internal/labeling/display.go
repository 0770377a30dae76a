package labeling

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"resume-pipeline/internal/records"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	idStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

const defaultPageSize = 10

func divider(out io.Writer) {
	fmt.Fprintln(out, dividerStyle.Render(strings.Repeat("=", 50)))
}

// displayRecord prints the claimed record, paginating long text so the
// operator can read it section by section.
func (s *Session) displayRecord(rec records.ResumeRecord) error {
	fmt.Fprintln(s.out)
	divider(s.out)
	fmt.Fprintln(s.out, idStyle.Render("Current Document ID: "+rec.ID))

	if err := s.paginate("Resume Text", rec.ResumeText); err != nil {
		return err
	}
	if err := s.paginate("Job Description", rec.JobDescription); err != nil {
		return err
	}
	if err := s.paginate("Generated Resume", rec.GeneratedResume); err != nil {
		return err
	}
	divider(s.out)
	fmt.Fprintln(s.out)
	return nil
}

func (s *Session) paginate(title, text string) error {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, titleStyle.Render(title+":"))
	if text == "" {
		fmt.Fprintln(s.out, "N/A")
		return nil
	}

	pageSize := s.pageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i += pageSize {
		end := i + pageSize
		if end > len(lines) {
			end = len(lines)
		}
		fmt.Fprintln(s.out, strings.Join(lines[i:end], "\n"))
		if end < len(lines) {
			if err := s.prompter.Pause("Press Enter to continue..."); err != nil {
				return err
			}
		}
	}
	return nil
}
