// Package skills loads SKILL.md knowledge files from a set of directories
// and exposes them to a run: summaries for the system prompt, full content
// on demand through the skill action.
//
// A skill lives at <dir>/<name>/SKILL.md with YAML frontmatter:
//
//	---
//	name: release-checklist
//	description: Steps for cutting a release.
//	---
//	<markdown body>
package skills

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill is one loaded SKILL.md file.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"-"`
	Path        string `json:"path"`
}

type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

const frontmatterDelimiter = "---"

// parseSkillFile splits YAML frontmatter from the markdown body. A file
// without frontmatter is all body.
func parseSkillFile(data string) (frontmatter, string, error) {
	var fm frontmatter

	rest, found := strings.CutPrefix(data, frontmatterDelimiter+"\n")
	if !found {
		return fm, data, nil
	}

	head, body, found := strings.Cut(rest, "\n"+frontmatterDelimiter)
	if !found {
		return fm, data, nil
	}

	if err := yaml.Unmarshal([]byte(head), &fm); err != nil {
		return fm, "", err
	}

	body = strings.TrimPrefix(body, "\n")
	return fm, strings.TrimSpace(body), nil
}
