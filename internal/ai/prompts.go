package ai

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

// SummarizePrompt asks for a short plain text summary
func SummarizePrompt(text string) string {
	return fmt.Sprintf("Summarize the following learning material in one short paragraph of plain text. "+
		"Do not use markdown.\n\n%s", strings.TrimSpace(text))
}

// KeyPointsPrompt asks for one key point per line
func KeyPointsPrompt(text string) string {
	return fmt.Sprintf("List the key points of the following learning material. "+
		"Write one point per line, numbered 1., 2., 3. and so on, without any other text.\n\n%s", strings.TrimSpace(text))
}

// RoadmapPrompt asks for numbered "Title: description" steps
func RoadmapPrompt(goal, level string) string {
	if level == "" {
		level = "beginner"
	}
	return fmt.Sprintf("Create a learning roadmap for a %s learner who wants to learn %q. "+
		"Answer with 5 to 10 steps, one per line, in the form \"1. Step title: one sentence description\". "+
		"Do not add any other text.", level, strings.TrimSpace(goal))
}

// FallbackRoadmap is offered when the AI service fails so the learner
// still gets a roadmap to start from
func FallbackRoadmap(goal string) []models.RoadmapStep {
	goal = strings.TrimSpace(goal)
	titles := []struct{ title, description string }{
		{"Learn the fundamentals", "Study the core concepts and vocabulary of " + goal + "."},
		{"Follow a guided course", "Work through one structured beginner course end to end."},
		{"Build a small project", "Apply what you learned in a project you can finish in a week."},
		{"Practice with challenges", "Solve exercises regularly to find gaps in your understanding."},
		{"Share and get feedback", "Publish your work and ask others to review it."},
	}
	steps := make([]models.RoadmapStep, len(titles))
	for i, t := range titles {
		steps[i] = models.RoadmapStep{Order: i + 1, Title: t.title, Description: t.description}
	}
	return steps
}
