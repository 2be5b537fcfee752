package config

import (
	"fmt"
	"os"
	"strconv"
)

// EnvInt reads an integer override from the environment. The boolean is
// false when the variable is unset or empty.
func EnvInt(name string) (int, bool, error) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s=%q: %w", name, raw, err)
	}
	return value, true, nil
}

// EnvString reads a string override from the environment. The boolean is
// false when the variable is unset or empty.
func EnvString(name string) (string, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
