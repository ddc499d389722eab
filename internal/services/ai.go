package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

type AIService struct {
	client *openai.Client
}

type suggestedSkill struct {
	Skill   string `json:"skill"`
	SkillID string `json:"skill_id"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestSkills asks the model which skills a project draft needs
func (s *AIService) SuggestSkills(ctx context.Context, title, description string) ([]models.SkillRef, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You help clients post projects on a freelance marketplace.
Read the project draft below and list the skills a freelancer needs for it.

Title:
%s

Description:
%s

Return a JSON array, at most %d entries, in this shape:
[
  {
    "skill": "human readable skill name, e.g. Go",
    "skill_id": "lower-case slug, e.g. go"
  }
]

Rules:
- Return an empty array [] when no skills can be inferred
- Prefer concrete technologies and disciplines over soft skills
- Return JSON only, no explanation`, title, description, constants.MaxSuggestedSkills)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.2,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")

	var suggested []suggestedSkill
	if err := json.Unmarshal([]byte(content), &suggested); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	refs := make([]models.SkillRef, 0, len(suggested))
	for _, sk := range suggested {
		refs = append(refs, models.SkillRef{Skill: sk.Skill, SkillID: sk.SkillID})
	}

	skills := NormalizeSkills(refs)
	if len(skills) > constants.MaxSuggestedSkills {
		skills = skills[:constants.MaxSuggestedSkills]
	}
	return skills, nil
}
