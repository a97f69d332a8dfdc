package document

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/record"
)

// aliasTable maps a logical display field to the accepted payload field
// names, in priority order. The form pages historically disagreed on names
// (company vs companyName, jobTitle vs position); resolving them through one
// table keeps the fallbacks out of the assembly code.
type aliasTable map[string][]string

// text resolves a logical field against an entry, returning the first
// non-empty value stringified for display.
func (t aliasTable) text(entry map[string]any, field string) string {
	for _, name := range t[field] {
		if v, ok := entry[name]; ok {
			if s := strings.TrimSpace(record.FieldText(v)); s != "" && s != "null" {
				return s
			}
		}
	}
	return ""
}

// isTrue resolves a logical field as a boolean flag.
func (t aliasTable) isTrue(entry map[string]any, field string) bool {
	return t.text(entry, field) == "true"
}

var experienceAliases = aliasTable{
	"title":            {"jobTitle", "position", "title", "role"},
	"company":          {"companyName", "company", "employer"},
	"location":         {"location"},
	"startDate":        {"startDate", "start"},
	"endDate":          {"endDate", "end"},
	"isCurrent":        {"isCurrent", "current"},
	"duration":         {"duration"},
	"type":             {"type", "employmentType"},
	"responsibilities": {"responsibilities", "description"},
}

var educationAliases = aliasTable{
	"degree":      {"degree", "qualification"},
	"institution": {"institution", "school", "university"},
	"location":    {"location"},
	"startDate":   {"startDate", "start"},
	"endDate":     {"endDate", "end"},
	"duration":    {"duration"},
	"gpa":         {"gpa"},
	"grade":       {"grade"},
	"coursework":  {"coursework"},
	"honors":      {"honors"},
}

var achievementAliases = aliasTable{
	"title":        {"title", "name"},
	"organization": {"organization", "issuer"},
	"description":  {"description"},
	"date":         {"date", "year"},
}

var certificationAliases = aliasTable{
	"title":        {"title", "certificateName", "name"},
	"organization": {"organization", "issuingOrganization", "issuer"},
	"issueDate":    {"issueDate", "date"},
	"expiryDate":   {"expiryDate"},
	"credentialId": {"credentialId", "credentialID"},
	"description":  {"description"},
}

var languageAliases = aliasTable{
	"language":    {"language", "name"},
	"proficiency": {"proficiency", "level"},
}
