package model

import "strings"

// NormalizeIdentity trims the source URL used as a record's identity.
func NormalizeIdentity(identity string) string {
	return strings.TrimSpace(identity)
}
