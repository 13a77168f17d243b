package release

import (
	"fmt"
	"strings"
)

// Compression scheme for saved image archives. Closed set; anything
// else is rejected at validation time, before any command runs.
type Compression string

const (
	CompressionNone  Compression = "none"
	CompressionGzip  Compression = "gzip"
	CompressionBzip2 Compression = "bzip2"
	CompressionXz    Compression = "xz"
	CompressionZip   Compression = "zip"
)

// Parses a compression scheme from configuration text. An empty value
// means no compression.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "gzip":
		return CompressionGzip, nil
	case "bzip2":
		return CompressionBzip2, nil
	case "xz":
		return CompressionXz, nil
	case "zip":
		return CompressionZip, nil
	}
	return "", fmt.Errorf("%w: %q", ErrCompression, s)
}
