package shell

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/locvowork/employee_management_sample/crud/internal/domain"
)

// formatRow renders a record as a tuple, e.g. (1, 'Alice', 30, 'alice@co.com').
func formatRow(e domain.Employee) string {
	age := "None"
	if e.Age != nil {
		age = strconv.Itoa(*e.Age)
	}

	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(strconv.FormatInt(e.ID, 10))
	sb.WriteString(", ")
	sb.WriteString(quote(e.Name))
	sb.WriteString(", ")
	sb.WriteString(age)
	sb.WriteString(", ")
	sb.WriteString(quote(e.Email))
	sb.WriteString(")")
	return sb.String()
}

// quote renders s the way the original program printed strings: single
// quotes unless the text holds a single quote and no double quote, with
// backslashes and non-printable characters escaped.
func quote(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var sb strings.Builder
	sb.WriteRune(q)
	for _, r := range s {
		switch {
		case r == '\\' || r == q:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}
	}
	sb.WriteRune(q)
	return sb.String()
}
