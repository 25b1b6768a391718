package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// SkillFileName is the file each skill directory must contain.
const SkillFileName = "SKILL.md"

// Loader discovers skills across a list of directories. Earlier directories
// win on name collisions.
type Loader struct {
	dirs []string

	mu     sync.RWMutex
	skills map[string]Skill
	order  []string
}

// NewLoader creates a loader over the given directories, highest priority
// first. Missing directories are skipped at load time.
func NewLoader(dirs ...string) *Loader {
	return &Loader{
		dirs:   dirs,
		skills: make(map[string]Skill),
	}
}

// Reload rescans every directory and replaces the loaded set. A directory
// that cannot be read is skipped; a SKILL.md with broken frontmatter fails
// the reload.
func (l *Loader) Reload() error {
	loaded := make(map[string]Skill)
	var order []string

	for _, dir := range l.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name(), SkillFileName)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}

			fm, body, err := parseSkillFile(string(data))
			if err != nil {
				return errors.Wrapf(err, "parse skill frontmatter at %s", path)
			}

			name := fm.Name
			if name == "" {
				name = e.Name()
			}
			if _, exists := loaded[name]; exists {
				continue
			}

			loaded[name] = Skill{
				Name:        name,
				Description: fm.Description,
				Content:     body,
				Path:        path,
			}
			order = append(order, name)
		}
	}

	sort.Strings(order)

	l.mu.Lock()
	l.skills = loaded
	l.order = order
	l.mu.Unlock()
	return nil
}

// Skills returns the loaded skills sorted by name.
func (l *Loader) Skills() []Skill {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Skill, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.skills[name])
	}
	return out
}

// Get returns a loaded skill by name.
func (l *Loader) Get(name string) (Skill, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.skills[name]
	return s, ok
}

// Dirs returns the configured skill directories in priority order.
func (l *Loader) Dirs() []string {
	out := make([]string, len(l.dirs))
	copy(out, l.dirs)
	return out
}

// Instructions renders a summary of the loaded skills for system prompt
// injection. Empty when no skills are loaded.
func (l *Loader) Instructions() string {
	all := l.Skills()
	if len(all) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Available skills\n\n")
	b.WriteString("Use the skill action to read a skill's full content before relying on it.\n\n")
	for _, s := range all {
		b.WriteString(fmt.Sprintf("- %s: %s\n", s.Name, s.Description))
	}
	return b.String()
}
