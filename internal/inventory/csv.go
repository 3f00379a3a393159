package inventory

import "strings"

// ParseCSVLine splits one line of CSV text into trimmed fields.
//
// A double quote toggles the in-quotes state and is dropped; commas inside
// quotes are kept as data. Escaped quotes ("") are not supported: they toggle
// twice and disappear. A blank line yields nil.
func ParseCSVLine(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// ParseCSV parses a whole CSV document line by line. Blank lines are skipped
// and carriage returns are stripped. Quoted cells spanning lines are not supported.
func ParseCSV(text string) [][]string {
	lines := strings.Split(text, "\n")
	records := make([][]string, 0, len(lines))
	for _, line := range lines {
		fields := ParseCSVLine(strings.TrimRight(line, "\r"))
		if fields == nil {
			continue
		}
		records = append(records, fields)
	}
	return records
}
