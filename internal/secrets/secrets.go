// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and contact details for the crawlers.
// Values come from a directory of plain-text files, where the filename is
// the key name and the trimmed contents are the value, and from an optional
// dotenv file whose SCREAMING_SNAKE keys map to the same kebab-case names.
//
// Supported keys: semantic-scholar-api-key, crawler-contact-email.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Well-known key names.
const (
	SemanticScholarAPIKey = "semantic-scholar-api-key"
	ContactEmail          = "crawler-contact-email"
)

// Secrets maps kebab-case key names to values.
type Secrets map[string]string

// Get returns the value for key. The process environment is consulted
// first using the upper snake-case form of the key, so
// SEMANTIC_SCHOLAR_API_KEY overrides the semantic-scholar-api-key file.
func (s Secrets) Get(key string) string {
	if v := strings.TrimSpace(os.Getenv(EnvName(key))); v != "" {
		return v
	}
	return s[key]
}

// EnvName converts a kebab-case key to its environment variable name.
func EnvName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// KeyName converts an environment variable name to its kebab-case key.
func KeyName(env string) string {
	return strings.ToLower(strings.ReplaceAll(env, "_", "-"))
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on w but do not abort.
func Load(dir string, w io.Writer) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadAll combines the secrets directory with a dotenv file. Directory
// entries win over dotenv entries of the same name. A missing dotenv file
// is not an error.
func LoadAll(dir, envFile string, w io.Writer) (Secrets, error) {
	secrets, err := Load(dir, w)
	if err != nil {
		return nil, err
	}
	if envFile == "" {
		return secrets, nil
	}

	env, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return secrets, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
	}
	for k, v := range env {
		key := KeyName(k)
		v = strings.TrimSpace(v)
		if _, ok := secrets[key]; ok || v == "" {
			continue
		}
		secrets[key] = v
	}
	return secrets, nil
}
