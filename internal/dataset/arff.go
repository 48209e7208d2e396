package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ARFF keywords, matched case-insensitively.
const (
	arffComment   = "%"
	arffRelation  = "@relation"
	arffAttribute = "@attribute"
	arffData      = "@data"
)

// ParseError is an ARFF syntax error.
type ParseError struct {
	Line    int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("arff line %d: %s", e.Line, e.Message)
}

// LoadARFF reads an ARFF file from disk.
func LoadARFF(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open arff: %w", err)
	}
	defer f.Close()

	t, err := ReadARFF(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// ReadARFF parses a dense ARFF document.
//
// Nominal values and data cells have surrounding quotes and whitespace
// removed; inner spaces become '|' so every value is a single token.
// A nominal attribute whose values are all "[l<->u]" ranges has Kind Ranged.
func ReadARFF(r io.Reader) (*Table, error) {
	t := &Table{}
	inData := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, arffComment) {
			continue
		}

		if inData {
			row, err := parseRow(text, len(t.Attributes))
			if err != nil {
				return nil, &ParseError{Line: line, Message: err.Error()}
			}
			t.Rows = append(t.Rows, row)
			continue
		}

		keyword, rest := splitKeyword(text)
		switch strings.ToLower(keyword) {
		case arffRelation:
			name, _ := readName(rest)
			if name == "" {
				return nil, &ParseError{Line: line, Message: "missing relation name"}
			}
			t.Relation = name
		case arffAttribute:
			a, err := parseAttribute(rest)
			if err != nil {
				return nil, &ParseError{Line: line, Message: err.Error()}
			}
			t.Attributes = append(t.Attributes, a)
		case arffData:
			if len(t.Attributes) == 0 {
				return nil, &ParseError{Line: line, Message: "@data before any @attribute"}
			}
			inData = true
		default:
			return nil, &ParseError{Line: line, Message: fmt.Sprintf("unexpected %q", keyword)}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan arff: %w", err)
	}
	if !inData {
		return nil, &ParseError{Line: line, Message: "missing @data section"}
	}
	return t, nil
}

func splitKeyword(text string) (string, string) {
	i := strings.IndexAny(text, " \t")
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}

// readName reads a possibly quoted name and returns it with the remainder.
func readName(s string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if q := s[0]; q == '\'' || q == '"' {
		end := strings.IndexByte(s[1:], q)
		if end < 0 {
			return s[1:], ""
		}
		return s[1 : end+1], strings.TrimSpace(s[end+2:])
	}
	name, rest := splitKeyword(s)
	return name, rest
}

func parseAttribute(s string) (Attribute, error) {
	name, rest := readName(s)
	if name == "" {
		return Attribute{}, fmt.Errorf("missing attribute name")
	}
	if rest == "" {
		return Attribute{}, fmt.Errorf("attribute %q has no type", name)
	}

	if rest[0] == '{' {
		end := strings.LastIndexByte(rest, '}')
		if end < 0 {
			return Attribute{}, fmt.Errorf("attribute %q: unterminated value list", name)
		}
		var values []string
		for _, v := range splitFields(rest[1:end]) {
			v = cleanValue(v)
			if v == "" {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return Attribute{}, fmt.Errorf("attribute %q has an empty domain", name)
		}
		kind := Nominal
		if allRanges(values) {
			kind = Ranged
		}
		return Attribute{Name: name, Kind: kind, Values: values}, nil
	}

	switch strings.ToLower(rest) {
	case "numeric", "real", "integer":
		return Attribute{Name: name, Kind: Numeric}, nil
	default:
		return Attribute{}, fmt.Errorf("attribute %q: unsupported type %q", name, rest)
	}
}

func parseRow(text string, width int) ([]string, error) {
	if strings.HasPrefix(text, "{") {
		return nil, fmt.Errorf("sparse rows are not supported")
	}
	fields := splitFields(text)
	if len(fields) != width {
		return nil, fmt.Errorf("row has %d values, want %d", len(fields), width)
	}
	for i, f := range fields {
		fields[i] = cleanValue(f)
	}
	return fields, nil
}

// splitFields splits text on commas outside single or double quotes. An
// unterminated quote runs to the end of text.
func splitFields(text string) []string {
	var fields []string
	var quote byte
	start := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			fields = append(fields, text[start:i])
			start = i + 1
		}
	}
	return append(fields, text[start:])
}

// cleanValue strips quotes and outer whitespace and joins inner spaces with '|'.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "'", "")
	v = strings.ReplaceAll(v, "\"", "")
	return strings.Join(strings.Fields(v), "|")
}

func allRanges(values []string) bool {
	for _, v := range values {
		if _, err := ParseRange(v); err != nil {
			return false
		}
	}
	return true
}

// WriteARFF writes t in the format ReadARFF accepts.
func WriteARFF(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)

	relation := t.Relation
	if relation == "" {
		relation = "relation"
	}
	fmt.Fprintf(bw, "%s %s\n\n", arffRelation, quoteName(relation))

	for _, a := range t.Attributes {
		fmt.Fprintf(bw, "%s %s ", arffAttribute, quoteName(a.Name))
		if a.Kind == Numeric {
			bw.WriteString("numeric\n")
			continue
		}
		values := make([]string, len(a.Values))
		for i, v := range a.Values {
			values[i] = quoteValue(v)
		}
		fmt.Fprintf(bw, "{%s}\n", strings.Join(values, ", "))
	}

	fmt.Fprintf(bw, "\n%s\n", arffData)
	for _, r := range t.Rows {
		for i, v := range r {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(quoteValue(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func quoteName(name string) string {
	if strings.ContainsAny(name, " \t") {
		return "'" + name + "'"
	}
	return name
}

// quoteValue quotes a value holding a comma so splitFields keeps it whole.
func quoteValue(v string) string {
	if !strings.Contains(v, ",") {
		return v
	}
	if strings.Contains(v, "'") {
		return `"` + v + `"`
	}
	return "'" + v + "'"
}
