package document

// Document is the generator's structured output: a fixed schema of named
// groups populated from aggregated record fields. It is derived and
// ephemeral; only records are persisted.
type Document struct {
	Name      string
	Headline  string
	Email     string
	Phone     string
	Location  string
	LinkedIn  string
	Portfolio string

	Skills         []SkillCategory
	Experience     []ExperienceEntry
	Education      []EducationEntry
	Achievements   []AchievementEntry
	Certifications []CertificationEntry
	Languages      []LanguageEntry
}

// SkillCategory is one named group of skills.
type SkillCategory struct {
	Category string
	Items    []string
}

// ExperienceEntry is one job in the professional experience list.
type ExperienceEntry struct {
	Title            string
	Company          string
	Location         string
	DateRange        string
	EmploymentType   string
	Responsibilities string
}

// EducationEntry is one entry in the education list.
type EducationEntry struct {
	Degree      string
	Institution string
	Location    string
	DateRange   string
	GPA         string
	Grade       string
	Coursework  string
	Honors      string
}

// AchievementEntry is one entry in the achievements list.
type AchievementEntry struct {
	Title        string
	Organization string
	Description  string
	Date         string
}

// CertificationEntry is one entry in the certifications list.
type CertificationEntry struct {
	Title        string
	Organization string
	IssueDate    string
	ExpiryDate   string
	CredentialID string
	Description  string
}

// LanguageEntry is one entry in the languages list.
type LanguageEntry struct {
	Language    string
	Proficiency string
}
