package schema

import "github.com/robalobadob/hsr-guess/assets"

// Default parses the schema embedded in the assets package.
func Default() (*Schema, error) {
	return Parse(assets.Schema)
}
