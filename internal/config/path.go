// Package config resolves scout settings that live outside viper: database
// and credential paths, and the Google Sheets export target.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a user-supplied path such as --db or a service
// account file. Surrounding whitespace is dropped, a leading ~ becomes the
// home directory and $VAR references are expanded. The result is cleaned.
// A blank path stays empty.
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}

	return filepath.Clean(os.ExpandEnv(path))
}
