package config

import "log"

// MustNonEmptyBytes stops the process when a secret a command cannot run
// without is empty.
func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
