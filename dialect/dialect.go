package dialect

import "fmt"

// Dialect names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Dialects holds all supported dialects.
var Dialects = []string{MySQL, SQLite, Postgres}

// Validate reports an error if name is not a supported dialect.
func Validate(name string) error {
	for _, d := range Dialects {
		if d == name {
			return nil
		}
	}
	return fmt.Errorf("dialect: unsupported dialect %q", name)
}
