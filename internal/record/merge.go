package record

// MergeSection applies a section submission to the record. Any existing
// section with the same canonical name is removed and the incoming payload is
// appended as a new section at the end of the list; all other sections keep
// their relative order. Updates therefore always move a section to the end,
// which trades stable ordering for a simpler replace-then-append rule.
func (r *Record) MergeSection(name string, payload Payload) {
	canonical := CanonicalName(name)

	kept := r.Sections[:0]
	for _, s := range r.Sections {
		if s.Name != canonical {
			kept = append(kept, s)
		}
	}
	r.Sections = append(kept, Section{Name: canonical, Fields: payload})
}

// Flatten merges all section payloads into a single field map, in section
// order, with later sections overriding earlier ones on key collisions. This
// is the shape the document generator consumes.
func (r *Record) Flatten() map[string]any {
	fields := map[string]any{}
	for _, s := range r.Sections {
		for _, key := range s.Fields.Keys() {
			v, _ := s.Fields.Get(key)
			fields[key] = v
		}
	}
	return fields
}
