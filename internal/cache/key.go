package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

// KeyParams identifies a cached query.
type KeyParams struct {
	// Endpoint keeps results of different catalogs apart.
	Endpoint string `json:"endpoint"`
	// Operation is the GraphQL operation, e.g. "searchBooks".
	Operation string `json:"operation"`
	// Args are the operation's arguments.
	Args map[string]string `json:"args,omitempty"`
}

// GenerateKey returns a hex SHA-256 of the normalized params. Operation
// names are case-insensitive and surrounding whitespace is ignored; argument
// values are kept as given.
func GenerateKey(p KeyParams) (string, error) {
	op := strings.ToLower(strings.TrimSpace(p.Operation))
	if op == "" {
		return "", errors.New("cache key operation cannot be empty")
	}
	normalized := KeyParams{
		Endpoint:  strings.TrimRight(strings.TrimSpace(p.Endpoint), "/"),
		Operation: op,
		Args:      p.Args,
	}
	// encoding/json sorts map keys, so the encoding is deterministic.
	data, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
