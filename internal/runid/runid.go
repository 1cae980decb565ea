// Package runid generates run identifiers so a host juggling several CLI
// invocations can demultiplex progress and result messages.
package runid

import "github.com/google/uuid"

// New returns a freshly generated run identifier.
func New() string {
	return uuid.New().String()
}
