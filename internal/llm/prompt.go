package llm

import (
	_ "embed"
	"fmt"
	"strings"
)

// SystemMessage primes the model role for resume optimization.
const SystemMessage = "You are a professional resume optimizer."

//go:embed prompts/resume_opt_v1.txt
var resumeOptInstructionsV1 string

// BuildOptimizePrompt composes the user prompt for one pair.
func BuildOptimizePrompt(resumeText, jobDescription string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(resumeOptInstructionsV1, "\n"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Original Resume:\n%s\n\n", resumeText)
	fmt.Fprintf(&b, "Job Description:\n%s\n\n", jobDescription)
	b.WriteString("Optimized Resume:")
	return b.String()
}
