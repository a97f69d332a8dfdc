// Package render maps a resume document to presentation markup. Rendering is
// a pure function: no I/O, and byte-identical output for identical input.
package render

import (
	"html/template"
	"strings"

	"github.com/jonathan/resume-builder/internal/document"
)

var resumeTemplate = template.Must(template.New("resume").Parse(resumeMarkup))

// HTML renders the document as standalone HTML markup. Field values are
// escaped by the template engine.
func HTML(doc *document.Document) (string, error) {
	var sb strings.Builder
	if err := resumeTemplate.Execute(&sb, doc); err != nil {
		return "", &document.GenerationError{Message: "failed to execute resume template", Cause: err}
	}
	return sb.String(), nil
}

const resumeMarkup = `<div class="max-w-4xl mx-auto bg-white p-8 font-sans text-gray-900 leading-relaxed" style="font-size: 14px; line-height: 1.6;">
  <header class="text-center mb-8 border-b-2 border-indigo-600 pb-6">
    <h1 class="text-4xl font-bold mb-3 text-gray-800">{{if .Name}}{{.Name}}{{else}}Professional Resume{{end}}</h1>
{{- if .Headline}}
    <p class="text-lg text-indigo-600 font-medium mb-4">{{.Headline}}</p>
{{- end}}
    <div class="text-sm text-gray-600 space-y-2">
      <div class="flex justify-center items-center gap-6 flex-wrap">
{{- if .Phone}}
        <span class="flex items-center gap-1">{{.Phone}}</span>
{{- end}}
{{- if .Email}}
        <span class="flex items-center gap-1">{{.Email}}</span>
{{- end}}
{{- if .Location}}
        <span class="flex items-center gap-1">{{.Location}}</span>
{{- end}}
      </div>
      <div class="flex justify-center items-center gap-6 flex-wrap">
{{- if .LinkedIn}}
        <span class="flex items-center gap-1"><a href="{{.LinkedIn}}">LinkedIn</a></span>
{{- end}}
{{- if .Portfolio}}
        <span class="flex items-center gap-1"><a href="{{.Portfolio}}">Portfolio</a></span>
{{- end}}
      </div>
    </div>
  </header>
{{- if .Skills}}
  <section class="mb-8" id="skills">
    <h2 class="text-xl font-bold mb-4 border-b-2 border-indigo-400 pb-2 text-indigo-800 uppercase tracking-wide">Technical Skills</h2>
    <div class="grid grid-cols-1 gap-3">
{{- range .Skills}}
      <div class="bg-gray-50 p-3 rounded-lg">
        <span class="font-semibold text-indigo-700">{{.Category}}:</span>
        <span class="text-gray-700">{{range $i, $item := .Items}}{{if $i}}, {{end}}{{$item}}{{end}}</span>
      </div>
{{- end}}
    </div>
  </section>
{{- end}}
{{- if .Experience}}
  <section class="mb-8" id="experience">
    <h2 class="text-xl font-bold mb-4 border-b-2 border-indigo-400 pb-2 text-indigo-800 uppercase tracking-wide">Professional Experience</h2>
{{- range .Experience}}
    <div class="mb-6 bg-gray-50 p-4 rounded-lg">
      <div class="flex justify-between items-start mb-3">
        <div>
          <h3 class="font-bold text-lg text-gray-800">{{.Title}}</h3>
          <p class="text-indigo-600 font-semibold">{{.Company}}</p>
{{- if .Location}}
          <p class="text-sm text-gray-600">{{.Location}}</p>
{{- end}}
        </div>
        <div class="text-right">
          <p class="text-sm font-medium text-gray-700">{{.DateRange}}</p>
{{- if .EmploymentType}}
          <p class="text-xs text-gray-500">{{.EmploymentType}}</p>
{{- end}}
        </div>
      </div>
{{- if .Responsibilities}}
      <div class="text-sm text-gray-700">
        <p class="leading-relaxed">{{.Responsibilities}}</p>
      </div>
{{- end}}
    </div>
{{- end}}
  </section>
{{- end}}
{{- if .Education}}
  <section class="mb-8" id="education">
    <h2 class="text-xl font-bold mb-4 border-b-2 border-indigo-400 pb-2 text-indigo-800 uppercase tracking-wide">Education</h2>
{{- range .Education}}
    <div class="mb-4 bg-gray-50 p-4 rounded-lg">
      <div class="flex justify-between items-start">
        <div>
          <h3 class="font-bold text-lg text-gray-800">{{.Degree}}</h3>
          <p class="text-indigo-600 font-semibold">{{.Institution}}</p>
{{- if .Location}}
          <p class="text-sm text-gray-600">{{.Location}}</p>
{{- end}}
{{- if .Coursework}}
          <p class="text-sm text-gray-600 mt-1"><span class="font-medium">Coursework:</span> {{.Coursework}}</p>
{{- end}}
{{- if .Honors}}
          <p class="text-sm text-indigo-600 mt-1"><span class="font-medium">Honors:</span> {{.Honors}}</p>
{{- end}}
        </div>
        <div class="text-right">
          <p class="text-sm font-medium text-gray-700">{{.DateRange}}</p>
{{- if .GPA}}
          <p class="text-sm font-bold text-indigo-600">GPA: {{.GPA}}</p>
{{- end}}
{{- if .Grade}}
          <p class="text-sm font-bold text-indigo-600">{{.Grade}}</p>
{{- end}}
        </div>
      </div>
    </div>
{{- end}}
  </section>
{{- end}}
{{- if .Achievements}}
  <section class="mb-8" id="achievements">
    <h2 class="text-xl font-bold mb-4 border-b-2 border-indigo-400 pb-2 text-indigo-800 uppercase tracking-wide">Achievements</h2>
{{- range .Achievements}}
    <div class="mb-4 bg-gray-50 p-4 rounded-lg">
      <div class="flex justify-between items-start">
        <div>
          <h3 class="font-bold text-gray-800">{{.Title}}</h3>
{{- if .Organization}}
          <p class="text-indigo-600 font-semibold">{{.Organization}}</p>
{{- end}}
{{- if .Description}}
          <p class="text-sm text-gray-700 mt-1">{{.Description}}</p>
{{- end}}
        </div>
{{- if .Date}}
        <p class="text-sm font-medium text-gray-700">{{.Date}}</p>
{{- end}}
      </div>
    </div>
{{- end}}
  </section>
{{- end}}
{{- if .Certifications}}
  <section class="mb-8" id="certifications">
    <h2 class="text-xl font-bold mb-4 border-b-2 border-indigo-400 pb-2 text-indigo-800 uppercase tracking-wide">Certifications</h2>
{{- range .Certifications}}
    <div class="mb-4 bg-gray-50 p-4 rounded-lg">
      <div class="flex justify-between items-start">
        <div>
          <h3 class="font-bold text-gray-800">{{.Title}}</h3>
{{- if .Organization}}
          <p class="text-indigo-600 font-semibold">{{.Organization}}</p>
{{- end}}
{{- if .Description}}
          <p class="text-sm text-gray-700 mt-1">{{.Description}}</p>
{{- end}}
{{- if .CredentialID}}
          <p class="text-xs text-gray-500 mt-1">Credential ID: {{.CredentialID}}</p>
{{- end}}
        </div>
        <div class="text-right">
{{- if .IssueDate}}
          <p class="text-sm font-medium text-gray-700">{{.IssueDate}}</p>
{{- end}}
{{- if .ExpiryDate}}
          <p class="text-xs text-gray-500">Expires {{.ExpiryDate}}</p>
{{- end}}
        </div>
      </div>
    </div>
{{- end}}
  </section>
{{- end}}
{{- if .Languages}}
  <section class="mb-8" id="languages">
    <h2 class="text-xl font-bold mb-4 border-b-2 border-indigo-400 pb-2 text-indigo-800 uppercase tracking-wide">Languages</h2>
    <div class="grid grid-cols-2 gap-3">
{{- range .Languages}}
      <div class="bg-gray-50 p-3 rounded-lg">
        <span class="font-semibold text-gray-800">{{.Language}}</span>
{{- if .Proficiency}}
        <span class="text-gray-600">: {{.Proficiency}}</span>
{{- end}}
      </div>
{{- end}}
    </div>
  </section>
{{- end}}
  <footer class="text-center mt-12 pt-6 border-t border-gray-300">
    <p class="text-xs text-gray-500">Generated by ATS Resume Builder - Optimized for Applicant Tracking Systems</p>
  </footer>
</div>
`
