package document

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-builder/internal/record"
)

// Display fallbacks for required fields that are missing from an entry.
const (
	fallbackTitle       = "Position"
	fallbackCompany     = "Company"
	fallbackDegree      = "Degree"
	fallbackInstitution = "Institution"
)

// Generate assembles a resume document from flattened record fields. It is
// pure and total: malformed values fall back to their raw text form rather
// than failing the generation.
func Generate(fields map[string]any) *Document {
	doc := &Document{
		Name:      displayName(fields),
		Headline:  fieldText(fields, "headline"),
		Email:     fieldText(fields, "email"),
		Phone:     fieldText(fields, "phone"),
		Location:  displayLocation(fields),
		LinkedIn:  firstText(fields, "linkedin", "linkedIn"),
		Portfolio: fieldText(fields, "portfolio"),
		Skills:    skillCategories(fields),
	}

	for _, entry := range entryList(fields["experience"]) {
		doc.Experience = append(doc.Experience, experienceEntry(entry))
	}
	for _, entry := range entryList(fields["education"]) {
		doc.Education = append(doc.Education, educationEntry(entry))
	}
	for _, entry := range entryList(fields["achievements"]) {
		doc.Achievements = append(doc.Achievements, AchievementEntry{
			Title:        achievementAliases.text(entry, "title"),
			Organization: achievementAliases.text(entry, "organization"),
			Description:  achievementAliases.text(entry, "description"),
			Date:         achievementAliases.text(entry, "date"),
		})
	}
	for _, entry := range entryList(fields["certifications"]) {
		doc.Certifications = append(doc.Certifications, CertificationEntry{
			Title:        certificationAliases.text(entry, "title"),
			Organization: certificationAliases.text(entry, "organization"),
			IssueDate:    certificationAliases.text(entry, "issueDate"),
			ExpiryDate:   certificationAliases.text(entry, "expiryDate"),
			CredentialID: certificationAliases.text(entry, "credentialId"),
			Description:  certificationAliases.text(entry, "description"),
		})
	}
	for _, entry := range entryList(fields["languages"]) {
		doc.Languages = append(doc.Languages, LanguageEntry{
			Language:    languageAliases.text(entry, "language"),
			Proficiency: languageAliases.text(entry, "proficiency"),
		})
	}

	return doc
}

// displayName prefers an explicit full-name field, falling back to the
// concatenated first and last names, trimmed.
func displayName(fields map[string]any) string {
	if name := fieldText(fields, "name"); name != "" {
		return name
	}
	first := fieldText(fields, "firstName")
	last := fieldText(fields, "lastName")
	return strings.TrimSpace(first + " " + last)
}

// displayLocation prefers an explicit location field, falling back to the
// address parts joined with ", ", skipping empty ones.
func displayLocation(fields map[string]any) string {
	if loc := fieldText(fields, "location"); loc != "" {
		return loc
	}
	var parts []string
	for _, key := range []string{"street", "city", "state", "zip", "country"} {
		if v := fieldText(fields, key); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func experienceEntry(entry map[string]any) ExperienceEntry {
	out := ExperienceEntry{
		Title:            experienceAliases.text(entry, "title"),
		Company:          experienceAliases.text(entry, "company"),
		Location:         experienceAliases.text(entry, "location"),
		DateRange:        dateRange(experienceAliases, entry),
		EmploymentType:   experienceAliases.text(entry, "type"),
		Responsibilities: experienceAliases.text(entry, "responsibilities"),
	}
	if out.Title == "" {
		out.Title = fallbackTitle
	}
	if out.Company == "" {
		out.Company = fallbackCompany
	}
	return out
}

func educationEntry(entry map[string]any) EducationEntry {
	out := EducationEntry{
		Degree:      educationAliases.text(entry, "degree"),
		Institution: educationAliases.text(entry, "institution"),
		Location:    educationAliases.text(entry, "location"),
		DateRange:   dateRange(educationAliases, entry),
		GPA:         educationAliases.text(entry, "gpa"),
		Grade:       educationAliases.text(entry, "grade"),
		Coursework:  educationAliases.text(entry, "coursework"),
		Honors:      educationAliases.text(entry, "honors"),
	}
	if out.Degree == "" {
		out.Degree = fallbackDegree
	}
	if out.Institution == "" {
		out.Institution = fallbackInstitution
	}
	return out
}

// dateRange renders "start – end|Present" when a start date exists, falling
// back to a raw duration string, else empty.
func dateRange(aliases aliasTable, entry map[string]any) string {
	start := aliases.text(entry, "startDate")
	if start == "" {
		return aliases.text(entry, "duration")
	}
	end := aliases.text(entry, "endDate")
	if end == "" || aliases.isTrue(entry, "isCurrent") {
		end = "Present"
	}
	return start + " – " + end
}

// entryList coerces a field value into a list of entry maps. Structured
// records hold real lists; legacy flattened records hold the list as text
// with JSON-like fragments, which are recovered by brace scanning with a
// per-fragment fallback to nothing on parse failure.
func entryList(v any) []map[string]any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		var entries []map[string]any
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				entries = append(entries, m)
			}
		}
		return entries
	case map[string]any:
		return []map[string]any{val}
	case string:
		return parseEntryFragments(val)
	default:
		return nil
	}
}

// parseEntryFragments extracts top-level {...} fragments from flattened list
// text and parses each as JSON, skipping fragments that fail to parse.
func parseEntryFragments(text string) []map[string]any {
	var entries []map[string]any
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					var entry map[string]any
					if err := json.Unmarshal([]byte(text[start:i+1]), &entry); err == nil {
						entries = append(entries, entry)
					}
					start = -1
				}
			}
		}
	}
	return entries
}

func fieldText(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	s := strings.TrimSpace(record.FieldText(v))
	if s == "null" {
		return ""
	}
	return s
}

func firstText(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := fieldText(fields, key); s != "" {
			return s
		}
	}
	return ""
}
