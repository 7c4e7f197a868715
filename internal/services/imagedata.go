package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// decodeImageData accepts either a data URI ("data:image/png;base64,<payload>")
// or a bare base64 payload, verifies the payload decodes as an image, and
// returns the raw bytes plus the sniffed format ("png", "jpeg", "gif").
func decodeImageData(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", fmt.Errorf("empty image payload")
	}
	payload := s
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		payload = s[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return raw, format, nil
}

func imageFileExt(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
