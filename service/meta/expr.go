package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnv replaces ${env.KEY} with the value of environment variable KEY,
// or an empty string when unset. A prefix without a closing brace is kept
// verbatim; a prefix whose key holds anything but letters, digits or '_' is
// kept verbatim while scanning continues right after it.
func expandEnv(value string) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	i := 0
	for {
		idx := strings.Index(value[i:], envPrefix)
		if idx < 0 {
			b.WriteString(value[i:])
			break
		}
		b.WriteString(value[i : i+idx])
		keyStart := i + idx + len(envPrefix)
		keyLen := strings.IndexByte(value[keyStart:], '}')
		if keyLen < 0 {
			b.WriteString(value[i+idx:])
			break
		}
		key := value[keyStart : keyStart+keyLen]
		if !isEnvKey(key) {
			b.WriteString(envPrefix)
			i = keyStart
			continue
		}
		b.WriteString(os.Getenv(key))
		i = keyStart + keyLen + 1
	}
	return b.String()
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
