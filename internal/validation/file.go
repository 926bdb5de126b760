package validation

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxAvatarSize is the upload limit for profile images.
const MaxAvatarSize = 5 << 20 // 5MB

var ErrFileTooLarge = errors.New("file too large: maximum size is 5 MB")

// avatarTypes maps a sniffed content type to the extensions accepted for it.
var avatarTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
	"image/gif":  {".gif"},
}

// ValidateAvatar checks size, sniffed content type, and extension of an
// uploaded profile image. It returns the detected content type.
func ValidateAvatar(header *multipart.FileHeader) (string, error) {
	if header.Size > MaxAvatarSize {
		return "", ErrFileTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return sniffAvatar(file, header.Filename)
}

func sniffAvatar(r io.Reader, filename string) (string, error) {
	// http.DetectContentType reads at most 512 bytes
	buffer := make([]byte, 512)
	n, err := io.ReadFull(r, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	detected := http.DetectContentType(buffer[:n])
	exts, ok := avatarTypes[detected]
	if !ok {
		return "", fmt.Errorf("invalid file type (detected: %s)", detected)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range exts {
		if ext == allowed {
			return detected, nil
		}
	}
	return "", fmt.Errorf("invalid file extension: %s", ext)
}
