package stock

import (
	"strconv"
	"strings"
)

// ParseLine extracts one (name, count) pair from a free-text line.
//
// The accepted shape is a small explicit grammar rather than a regexp so the
// edge cases stay testable:
//
//	line      = junk* name sep count junk*
//	name      = 1*(word | space)      ; must contain at least one word char
//	sep       = ("x" | "X") directly before the count
//	count     = 1*DIGIT
//	word      = ASCII letter | digit | "_"
//
// Leading markers ("- ", bullets) and anything after the count are ignored.
// Lines that don't match are skipped silently; there is no error path.
func ParseLine(line string) (Item, bool) {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c != 'x' && c != 'X' {
			continue
		}
		if i+1 >= len(line) || !isDigit(line[i+1]) {
			continue
		}
		name := nameBefore(line[:i])
		if name == "" {
			continue
		}
		j := i + 1
		for j < len(line) && isDigit(line[j]) {
			j++
		}
		n, err := strconv.ParseUint(line[i+1:j], 10, 31)
		if err != nil {
			continue
		}
		return Item{Name: name, Count: int(n)}, true
	}
	return Item{}, false
}

// ParseInventory runs ParseLine over every line of an embed description,
// preserving source order. Malformed lines are dropped, not reported.
func ParseInventory(body string) []Item {
	var items []Item
	for _, line := range strings.Split(body, "\n") {
		if it, ok := ParseLine(line); ok {
			items = append(items, it)
		}
	}
	return items
}

// nameBefore walks backwards over the run of word chars and spaces that
// precedes the separator and returns it trimmed. A run with no word char in
// it (only whitespace) yields "".
func nameBefore(prefix string) string {
	end := len(prefix)
	start := end
	for start > 0 && isNameChar(prefix[start-1]) {
		start--
	}
	return strings.TrimSpace(prefix[start:end])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_', c == ' ', c == '\t':
		return true
	}
	return false
}
