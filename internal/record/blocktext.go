package record

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The flattened text grammar, one block per section:
//
//	\n=== <SECTIONNAME> DATA ===\n
//	field1: value1
//	field2: value2
//
// Blocks are concatenated with no separator beyond the leading newline of the
// next block's delimiter, and the whole text ends with a newline. Earlier
// deployments persisted records in this format; records are now stored as
// structured JSON and the grammar survives as an export/debug view and as a
// legacy import path.

const (
	blockPrefix = "=== "
	blockSuffix = " DATA ==="
)

// Block is the raw textual representation of one section.
type Block struct {
	Name string // canonical upper-case section name
	Body string // field lines, newline-joined, no trailing newline
}

// FormatBlock renders a section payload as one grammar block, including the
// leading delimiter line. Field lines appear in payload order.
func FormatBlock(name string, payload Payload) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(blockPrefix)
	sb.WriteString(CanonicalName(name))
	sb.WriteString(blockSuffix)
	for _, key := range payload.Keys() {
		v, _ := payload.Get(key)
		sb.WriteString("\n")
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(FieldText(v))
	}
	return sb.String()
}

// FieldText flattens a payload value to its grammar text form: lists join
// their stringified elements with ", ", nested objects become compact JSON,
// scalars are written directly.
func FieldText(v any) string {
	switch val := v.(type) {
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = elementText(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return compactJSON(val)
	default:
		return scalarText(v)
	}
}

func elementText(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		return compactJSON(v)
	default:
		return scalarText(v)
	}
}

func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// Encode renders the whole record in the flattened text grammar with a
// guaranteed trailing newline.
func Encode(r *Record) string {
	var sb strings.Builder
	for _, s := range r.Sections {
		sb.WriteString(FormatBlock(s.Name, s.Fields))
	}
	sb.WriteString("\n")
	return sb.String()
}

// SplitBlocks parses grammar text into its ordered blocks, preserving each
// block's body verbatim. Text before the first delimiter is ignored.
func SplitBlocks(text string) []Block {
	var blocks []Block
	var current *Block
	var body []string

	flush := func() {
		if current != nil {
			current.Body = strings.Join(body, "\n")
			blocks = append(blocks, *current)
		}
		current = nil
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if name, ok := delimiterName(line); ok {
			flush()
			current = &Block{Name: name}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	// Trim the blank lines that the grammar's leading-newline delimiters
	// leave at block boundaries.
	for i := range blocks {
		blocks[i].Body = strings.Trim(blocks[i].Body, "\n")
	}
	return blocks
}

func delimiterName(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, blockPrefix) || !strings.HasSuffix(trimmed, blockSuffix) {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(trimmed, blockPrefix), blockSuffix)
	if name == "" {
		return "", false
	}
	return name, true
}

// MergeText applies a section submission directly to grammar text: the block
// matching the incoming name (case-insensitive) is removed, all other blocks
// are kept verbatim in order, and the new block is appended at the end.
func MergeText(existing, name string, payload Payload) string {
	canonical := CanonicalName(name)

	var sb strings.Builder
	for _, b := range SplitBlocks(existing) {
		if CanonicalName(b.Name) == canonical {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(blockPrefix)
		sb.WriteString(b.Name)
		sb.WriteString(blockSuffix)
		if b.Body != "" {
			sb.WriteString("\n")
			sb.WriteString(b.Body)
		}
	}
	sb.WriteString(FormatBlock(name, payload))
	sb.WriteString("\n")
	return sb.String()
}

// Decode parses grammar text into a record. The round trip is lossy: list
// and object fields were flattened to text on write and come back as plain
// strings; consumers that need structure re-parse field text themselves.
func Decode(text string) *Record {
	rec := &Record{}
	for _, b := range SplitBlocks(text) {
		payload := NewPayload()
		for _, line := range strings.Split(b.Body, "\n") {
			if line == "" {
				continue
			}
			key, value, found := strings.Cut(line, ":")
			if !found {
				continue
			}
			payload.Set(strings.TrimSpace(key), strings.TrimPrefix(value, " "))
		}
		rec.Sections = append(rec.Sections, Section{
			Name:   CanonicalName(b.Name),
			Fields: payload,
		})
	}
	return rec
}
