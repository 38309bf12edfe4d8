package util

import (
	"errors"
	"strings"
)

const maxFileNameRunes = 255

// ErrInvalidFileName reports a name that cannot be made safe for storage keys.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName makes an uploaded file name safe to embed in a storage
// key: path separators become underscores, control characters are dropped,
// and traversal sequences or blank names are rejected outright. Overlong
// names keep their tail so the extension survives.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	if cleaned == "" {
		return "", ErrInvalidFileName
	}
	if runes := []rune(cleaned); len(runes) > maxFileNameRunes {
		cleaned = string(runes[len(runes)-maxFileNameRunes:])
	}
	return cleaned, nil
}
