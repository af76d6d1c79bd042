package gen

import (
	"go/token"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	snakeBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
	title         = cases.Title(language.Und, cases.NoLower)

	acronyms = map[string]struct{}{
		"ACL": {}, "API": {}, "ASCII": {}, "CPU": {}, "CSS": {}, "DNS": {},
		"EOF": {}, "GUID": {}, "HTML": {}, "HTTP": {}, "HTTPS": {}, "ID": {},
		"IP": {}, "JSON": {}, "LHS": {}, "QPS": {}, "RAM": {}, "RHS": {},
		"RPC": {}, "SKU": {}, "SLA": {}, "SMTP": {}, "SQL": {}, "SSH": {},
		"TCP": {}, "TLS": {}, "TTL": {}, "UDP": {}, "UI": {}, "UID": {},
		"URI": {}, "URL": {}, "UTF8": {}, "UUID": {}, "VM": {}, "XML": {},
		"XMPP": {}, "XSRF": {}, "XSS": {},
	}
)

// Snake converts a camel-case identifier to the snake-case name used for
// storage columns and migration file names.
//
//	userName => user_name
//	UserRole => user_role
//
// Only lower-to-upper boundaries split words, so runs of capitals stay
// together (HTTPCode => httpcode), and Camel(Snake(s)) == s holds for
// identifiers with no digits next to a case boundary.
func Snake(s string) string {
	return strings.ToLower(snakeBoundary.ReplaceAllString(s, "${1}_${2}"))
}

// Camel converts a snake-case name back to lower camel-case.
//
//	user_name => userName
func Camel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	return inflect.CamelizeDownFirst(s)
}

// pascal converts the given name into a Go exported identifier,
// upper-casing known acronyms.
//
//	user_info => UserInfo
//	user_id   => UserID
//	userName  => UserName
func pascal(s string) string {
	words := strings.FieldsFunc(Snake(s), isSeparator)
	var b strings.Builder
	for _, w := range words {
		if _, ok := acronyms[strings.ToUpper(w)]; ok {
			b.WriteString(strings.ToUpper(w))
			continue
		}
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// capitalize upper-cases the first letter of s.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return title.String(s)
}

// uncapitalize lower-cases the leading letter, or the leading acronym,
// of s.
//
//	UserService => userService
//	ID          => id
//	HTTPClient  => httpClient
func uncapitalize(s string) string {
	r := []rune(s)
	i := 0
	for i < len(r) && unicode.IsUpper(r[i]) {
		i++
	}
	if i == 0 {
		return s
	}
	if i > 1 && i < len(r) {
		// Keep the last upper as the start of the next word.
		i--
	}
	return strings.ToLower(string(r[:i])) + string(r[i:])
}

// receiver returns the receiver name of the given type.
//
//	[]User      => u
//	UserQuery   => uq
//	HTTPClient  => hc
func receiver(s string) string {
	s = strings.TrimLeft(s, "[]*0123456789")
	r := []rune(s)
	var b strings.Builder
	for i, c := range r {
		if !unicode.IsUpper(c) && i > 0 {
			continue
		}
		start := i == 0 || unicode.IsLower(r[i-1]) || (i+1 < len(r) && unicode.IsLower(r[i+1]))
		if start {
			b.WriteRune(unicode.ToLower(c))
		}
	}
	name := b.String()
	if name == "" || token.IsKeyword(name) {
		name = strings.ToLower(s[:1])
	}
	return name
}

// isSeparator reports if the rune separates words in a name.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}
