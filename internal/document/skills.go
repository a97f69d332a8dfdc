package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-builder/internal/record"
)

// skillCategories builds the skills groups. An explicit structured skills
// mapping wins; otherwise categories are derived from the flat
// technical/soft/industry skill fields.
func skillCategories(fields map[string]any) []SkillCategory {
	if skills, ok := fields["skills"].(map[string]any); ok && len(skills) > 0 {
		return explicitCategories(skills)
	}

	var categories []SkillCategory
	if v, ok := fields["technicalSkills"]; ok {
		if items := technicalItems(v); len(items) > 0 {
			categories = append(categories, SkillCategory{Category: "Technical Skills", Items: items})
		}
	}
	if s := fieldText(fields, "softSkills"); s != "" {
		categories = append(categories, SkillCategory{Category: "Soft Skills", Items: []string{s}})
	}
	if s := fieldText(fields, "industrySkills"); s != "" {
		categories = append(categories, SkillCategory{Category: "Industry Skills", Items: []string{s}})
	}
	return categories
}

func explicitCategories(skills map[string]any) []SkillCategory {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	var categories []SkillCategory
	for _, name := range names {
		var items []string
		switch v := skills[name].(type) {
		case []any:
			for _, item := range v {
				items = append(items, skillItemText(item))
			}
		default:
			if s := strings.TrimSpace(record.FieldText(v)); s != "" {
				items = []string{s}
			}
		}
		if len(items) > 0 {
			categories = append(categories, SkillCategory{Category: name, Items: items})
		}
	}
	return categories
}

// technicalItems handles the historical shapes of the technical-skills
// field: a structured list of {name, proficiency} records, or flattened text
// where such records appear as JSON fragments joined by ", ". Text without
// any fragment stays a single joined string (parse-failure fallback), never
// an error.
func technicalItems(v any) []string {
	switch val := v.(type) {
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, skillItemText(item))
		}
		return items
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		if !strings.Contains(s, "{") {
			return []string{s}
		}
		parts := strings.Split(s, ", ")
		items := make([]string, 0, len(parts))
		for _, part := range parts {
			var skill map[string]any
			if err := json.Unmarshal([]byte(part), &skill); err == nil {
				items = append(items, namedSkillText(skill))
			} else {
				items = append(items, part)
			}
		}
		return items
	default:
		if s := strings.TrimSpace(record.FieldText(v)); s != "" {
			return []string{s}
		}
		return nil
	}
}

func skillItemText(item any) string {
	if skill, ok := item.(map[string]any); ok {
		return namedSkillText(skill)
	}
	return strings.TrimSpace(record.FieldText(item))
}

func namedSkillText(skill map[string]any) string {
	name := cleanText(skill["name"])
	proficiency := cleanText(skill["proficiency"])
	switch {
	case name == "":
		return compact(skill)
	case proficiency == "":
		return name
	default:
		return fmt.Sprintf("%s (%s)", name, proficiency)
	}
}

func cleanText(v any) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(record.FieldText(v))
	if s == "null" {
		return ""
	}
	return s
}

func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
