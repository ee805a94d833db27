package configs

import (
	"os"

	"github.com/graphicode-dev/classroom/internal/infrastructure/env"
)

var candidates = []string{
	"./classroom.yaml",
	"./classroom.yml",
	"./config.yaml",
	"/etc/classroom/config.yaml",
	"/app/config.yaml",
}

// DetermineConfigPath picks the config file: the explicit path, then
// CLASSROOM_CONFIG, then the first candidate that exists. It returns "" when
// nothing is found, which Load treats as defaults only.
func DetermineConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := env.GetString("CLASSROOM_CONFIG", ""); p != "" {
		return p
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
