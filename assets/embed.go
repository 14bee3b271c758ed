// Package assets embeds the static data the server ships with: the attribute
// schema, a default character dataset and the SQL migrations for the
// preferences database.
package assets

import "embed"

//go:embed schema.yaml
var Schema []byte

//go:embed characters.json
var Characters []byte

//go:embed sql/*.sql
var Migrations embed.FS
