package ai

import (
	"regexp"
	"strings"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

var (
	codeFence  = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")
	header     = regexp.MustCompile(`(?m)^\s*#{1,6}\s*`)
	bold       = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	italic     = regexp.MustCompile(`\*([^*\n]+)\*`)
	bullet     = regexp.MustCompile(`(?m)^\s*[-*•]\s+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	numbered   = regexp.MustCompile(`(?i)^\s*(?:step\s*)?\d+\s*[.):]\s*`)
	stepLine   = regexp.MustCompile(`(?i)^\s*(?:step\s*)?(\d+)\s*[.):]\s*(.+)$`)
)

// CleanText strips markdown emphasis, headers, bullets and code fences
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = codeFence.ReplaceAllString(s, "")
	s = header.ReplaceAllString(s, "")
	s = bullet.ReplaceAllString(s, "")
	s = bold.ReplaceAllString(s, "$1$2")
	s = italic.ReplaceAllString(s, "$1")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// SplitPoints returns one entry per non-empty line with numbering removed
func SplitPoints(s string) []string {
	lines := strings.Split(CleanText(s), "\n")
	points := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(numbered.ReplaceAllString(line, ""))
		if line != "" {
			points = append(points, line)
		}
	}
	return points
}

// ParseRoadmap reads numbered "Title: description" lines. Lines that are
// not numbered are ignored; steps are renumbered from 1 in reading order.
func ParseRoadmap(s string) []models.RoadmapStep {
	var steps []models.RoadmapStep
	for _, line := range strings.Split(CleanText(s), "\n") {
		m := stepLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title, description := splitTitle(m[2])
		if title == "" {
			continue
		}
		steps = append(steps, models.RoadmapStep{
			Order:       len(steps) + 1,
			Title:       title,
			Description: description,
		})
	}
	return steps
}

func splitTitle(s string) (title, description string) {
	for _, sep := range []string{":", " - ", " – "} {
		if before, after, ok := strings.Cut(s, sep); ok {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return strings.TrimSpace(s), ""
}
