// Package storage provides the local persistence layer: key/value stores for
// the offer draft cache and the saved login session.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Argument errors shared by every backend.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrInvalidKey     = errors.New("invalid storage key")
	ErrMissingSetting = errors.New("missing storage setting")
	ErrSchemaVersion  = errors.New("unexpected schema version")
)

// MaxKeyLength bounds keys so they fit Redis and SQLite indexes alike.
const MaxKeyLength = 200

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// checkKey accepts printable keys without spaces, such as
// "flightpro_register_cache" or "session.cookie".
func checkKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case len(key) > MaxKeyLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidKey, MaxKeyLength)
	}
	if i := strings.IndexFunc(key, func(r rune) bool {
		return unicode.IsSpace(r) || !unicode.IsPrint(r)
	}); i >= 0 {
		return fmt.Errorf("%w: %q has a blank or control character at %d", ErrInvalidKey, key, i)
	}
	return nil
}

func requireSetting(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingSetting, name)
	}
	return nil
}
