// Package taxonomy loads and indexes the skill taxonomy: a curated mapping
// of categories to canonical skills and their synonyms. The taxonomy is
// loaded once at startup, is immutable for the process lifetime and is safe
// for concurrent reads.
package taxonomy

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"resumerefiner/internal/errors"
)

// SkillDef is one canonical skill with its synonyms as declared in the
// taxonomy source
type SkillDef struct {
	Name     string   `mapstructure:"name"`
	Synonyms []string `mapstructure:"synonyms"`
}

// CategoryDef is one taxonomy category in declaration order
type CategoryDef struct {
	Name   string     `mapstructure:"name"`
	Skills []SkillDef `mapstructure:"skills"`
}

type fileSchema struct {
	Categories []CategoryDef `mapstructure:"categories"`
}

type entry struct {
	category  string
	canonical string
}

// Taxonomy is the indexed, read-only skill taxonomy
type Taxonomy struct {
	categories []string
	skills     map[string][]string // category -> canonical skills, declaration order
	phrases    map[string]entry    // normalized phrase -> canonical mapping
	ordered    []string            // all canonical skills in taxonomy order
	maxWords   int
}

// Load reads a taxonomy YAML file. A missing or corrupt file is fatal; the
// engine must refuse to start rather than operate with a partial taxonomy.
func Load(path string, logger *errors.Logger) (*Taxonomy, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewTaxonomyError(errors.ErrCodeTaxonomyLoad,
			fmt.Sprintf("Cannot read taxonomy file: %s", path), err)
	}

	var schema fileSchema
	if err := v.Unmarshal(&schema); err != nil {
		return nil, errors.NewTaxonomyError(errors.ErrCodeTaxonomyLoad,
			fmt.Sprintf("Cannot parse taxonomy file: %s", path), err)
	}

	if len(schema.Categories) == 0 {
		return nil, errors.NewTaxonomyError(errors.ErrCodeTaxonomyEmpty,
			fmt.Sprintf("Taxonomy file declares no categories: %s", path), nil)
	}

	return build(schema.Categories, logger)
}

// build indexes the category definitions. Synonym collisions are resolved
// first-match-wins in category declaration order and logged, never fatal.
func build(defs []CategoryDef, logger *errors.Logger) (*Taxonomy, error) {
	t := &Taxonomy{
		skills:  make(map[string][]string),
		phrases: make(map[string]entry),
	}

	for _, cat := range defs {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, errors.NewTaxonomyError(errors.ErrCodeTaxonomyLoad,
				"Taxonomy category with empty name", nil)
		}
		if _, dup := t.skills[name]; dup {
			return nil, errors.NewTaxonomyError(errors.ErrCodeTaxonomyLoad,
				fmt.Sprintf("Duplicate taxonomy category: %s", name), nil)
		}

		t.categories = append(t.categories, name)
		for _, skill := range cat.Skills {
			canonical := normalizePhrase(skill.Name)
			if canonical == "" {
				continue
			}

			t.skills[name] = append(t.skills[name], canonical)
			t.ordered = append(t.ordered, canonical)
			t.addPhrase(canonical, name, canonical, logger)
			for _, syn := range skill.Synonyms {
				t.addPhrase(normalizePhrase(syn), name, canonical, logger)
			}
		}
	}

	if len(t.ordered) == 0 {
		return nil, errors.NewTaxonomyError(errors.ErrCodeTaxonomyEmpty,
			"Taxonomy declares no skills", nil)
	}

	return t, nil
}

func (t *Taxonomy) addPhrase(phrase, category, canonical string, logger *errors.Logger) {
	if phrase == "" {
		return
	}

	if existing, ok := t.phrases[phrase]; ok {
		// First-match-wins in declaration order. Keep the earlier mapping.
		if existing.canonical != canonical || existing.category != category {
			if logger != nil {
				logger.Warn("Taxonomy synonym collision, keeping first match",
					"phrase", phrase,
					"kept_category", existing.category,
					"kept_skill", existing.canonical,
					"dropped_category", category,
					"dropped_skill", canonical)
			}
		}
		return
	}

	t.phrases[phrase] = entry{category: category, canonical: canonical}
	if words := strings.Count(phrase, " ") + 1; words > t.maxWords {
		t.maxWords = words
	}
}

// Categories returns the category names in declaration order
func (t *Taxonomy) Categories() []string {
	return t.categories
}

// Skills returns the canonical skills of a category in declaration order
func (t *Taxonomy) Skills(category string) []string {
	return t.skills[category]
}

// OrderedSkills returns every canonical skill in taxonomy order. The binary
// skill presence vectors are built over this fixed ordering.
func (t *Taxonomy) OrderedSkills() []string {
	return t.ordered
}

// MaxPhraseWords returns the word count of the longest known phrase,
// bounding the longest-match extraction window.
func (t *Taxonomy) MaxPhraseWords() int {
	return t.maxWords
}

// Lookup resolves a normalized phrase to its category and canonical skill
func (t *Taxonomy) Lookup(phrase string) (category, canonical string, ok bool) {
	e, ok := t.phrases[phrase]
	if !ok {
		return "", "", false
	}
	return e.category, e.canonical, true
}

// Len returns the total number of canonical skills
func (t *Taxonomy) Len() int {
	return len(t.ordered)
}

func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
