package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/joho/godotenv"
)

// dotEnvFile is read from the working directory at startup.
const dotEnvFile = ".env"

// loadDotEnv copies variables from path into the process environment.
// Variables already set win; a missing file is not an error. It returns the
// names it set.
func loadDotEnv(path string) ([]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var set []string
	for name, value := range values {
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", name, err)
		}
		set = append(set, name)
	}
	slices.Sort(set)
	return set, nil
}
