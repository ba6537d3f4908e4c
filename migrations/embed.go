// Package migrations embeds the golang-migrate SQL files for each supported database driver.
package migrations

import "embed"

// FS holds the postgresql/ and mysql/ migration directories.
//
//go:embed postgresql/*.sql mysql/*.sql
var FS embed.FS

// Dir returns the embedded directory holding the migrations of driver.
func Dir(driver string) string {
	if driver == "mysql" {
		return "mysql"
	}
	return "postgresql"
}
