package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

const pngDataPrefix = "data:image/png;base64,"

// DataURL makes an image payload from the generation API displayable.
// Payloads that already carry a data: prefix are returned untouched, bare
// base64 is assumed to be PNG.
func DataURL(payload string) string {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		return payload
	}
	return pngDataPrefix + payload
}

// StripDataURL returns the base64 part of a data URL, or the input if it has no prefix.
func StripDataURL(base64Str string) string {
	// Cut "data:image/*;base64," prefix, if present.
	before, after, found := strings.Cut(base64Str, ";base64,")
	if !found {
		return before
	}
	return after
}

func Base64ToByteReader(base64Str string) (*bytes.Reader, error) {
	data, err := base64.StdEncoding.DecodeString(base64Str)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(data), nil
}

func GetBase64ImageSize(base64Str string) (int, int, error) {
	reader, err := Base64ToByteReader(StripDataURL(base64Str))
	if err != nil {
		return 0, 0, err
	}

	config, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, err
	}

	return config.Width, config.Height, nil
}

// DecodedLen is the byte size of the image behind a data URL or base64 payload.
func DecodedLen(base64Str string) int {
	trimmed := strings.TrimRight(StripDataURL(base64Str), "=")
	return base64.RawStdEncoding.DecodedLen(len(trimmed))
}
