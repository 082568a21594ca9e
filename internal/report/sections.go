package report

import "strings"

// extractSummary pulls 1-3 non-empty, non-heading lines following an
// EXECUTIVE SUMMARY heading. Without such a heading the first 200
// characters of the raw text stand in.
func extractSummary(auditText string) string {
	var summaryLines []string
	inSummary := false

	for _, line := range strings.Split(auditText, "\n") {
		if strings.Contains(strings.ToUpper(line), "EXECUTIVE SUMMARY") {
			inSummary = true
			continue
		}
		if !inSummary {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			summaryLines = append(summaryLines, trimmed)
		}
		if len(summaryLines) >= 3 || (strings.HasPrefix(trimmed, "#") && len(summaryLines) > 0) {
			break
		}
	}

	if len(summaryLines) > 0 {
		return strings.Join(summaryLines, " ")
	}
	if len(auditText) > 200 {
		return auditText[:200]
	}
	return auditText
}

// extractThesis joins every non-empty line following an INVESTMENT THESIS
// heading, or returns a fixed fallback sentence.
func extractThesis(auditText string) string {
	var thesisLines []string
	inThesis := false

	for _, line := range strings.Split(auditText, "\n") {
		if strings.Contains(strings.ToUpper(line), "INVESTMENT THESIS") {
			inThesis = true
			continue
		}
		if inThesis {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				thesisLines = append(thesisLines, trimmed)
			}
		}
	}

	if len(thesisLines) > 0 {
		return strings.Join(thesisLines, " ")
	}
	return "Moderate investment opportunity with balanced risk-reward profile."
}

// parseSections splits narrative text into a heading -> body map. A line
// that starts with a heading marker or is entirely upper-case opens a new
// section; following lines accumulate as its body.
func parseSections(auditText string) map[string]string {
	sections := make(map[string]string)
	currentSection := ""
	var currentContent []string

	for _, line := range strings.Split(auditText, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") || isUpperLine(trimmed) {
			if currentSection != "" && len(currentContent) > 0 {
				sections[currentSection] = strings.Join(currentContent, "\n")
			}
			currentSection = strings.TrimSpace(strings.Trim(trimmed, "#"))
			currentContent = nil
		} else if currentSection != "" {
			currentContent = append(currentContent, line)
		}
	}

	if currentSection != "" && len(currentContent) > 0 {
		sections[currentSection] = strings.Join(currentContent, "\n")
	}

	return sections
}

// isUpperLine reports whether a line contains at least one letter and no
// lower-case letters.
func isUpperLine(s string) bool {
	if s == "" {
		return false
	}
	return s == strings.ToUpper(s) && s != strings.ToLower(s)
}
