package classify

import (
	"fmt"

	"github.com/campusfix/complaint-service/internal/domain"
)

const promptTemplate = `You are CampusFix AI. For this campus complaint: "%s", classify and return ONLY valid JSON (no markdown, no extra text):
{
  "category": "Electrical",
  "urgency": 7,
  "summary": "Brief title under 60 chars"
}

Valid categories: %s
Urgency: 1-10 scale (10 = extreme/safety)`

// BuildPrompt renders the fixed instruction for one complaint description.
func BuildPrompt(description string) string {
	return fmt.Sprintf(promptTemplate, description, domain.CategoryLabels())
}
