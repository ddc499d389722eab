package services

import (
	"strings"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

// NormalizeSkills trims skill references, fills a missing name or id from the
// other half, and drops blanks and duplicates. Order is preserved.
func NormalizeSkills(skills []models.SkillRef) []models.SkillRef {
	out := make([]models.SkillRef, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))

	for _, s := range skills {
		name := strings.TrimSpace(s.Skill)
		id := strings.TrimSpace(s.SkillID)
		if name == "" && id == "" {
			continue
		}
		if name == "" {
			name = id
		}
		if id == "" {
			id = slugify(name)
		}

		key := strings.ToLower(id)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, models.SkillRef{Skill: name, SkillID: id})
	}
	return out
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+', r == '#', r == '.':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
