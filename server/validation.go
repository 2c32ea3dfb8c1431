package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Extension checks mirror the upload contract: filename pattern only, no
// content sniffing.
var (
	audioFilePattern = regexp.MustCompile(`(?i)\.(mp3|mp4)$`)
	imageFilePattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png)$`)
)

var (
	errAudioExtension = errors.New("Only MP3 and MP4 files are allowed!")
	errImageExtension = errors.New("Only JPG, JPEG, and PNG files are allowed!")
	errFileTooLarge   = errors.New("File too large")
)

// formFileRule ties a multipart field name to its filename constraint.
type formFileRule struct {
	field   string
	pattern *regexp.Regexp
	errBad  error
}

var (
	audioFileRule = formFileRule{field: "file", pattern: audioFilePattern, errBad: errAudioExtension}
	coverFileRule = formFileRule{field: "coverImage", pattern: imageFilePattern, errBad: errImageExtension}
)

// stageFormFile validates the named multipart file and copies it into the
// staging directory. Returns ("", nil) when the field is absent. The staged
// file is the pipeline's input; cleanup after a failed request falls to the
// janitor.
func (h *APIHandler) stageFormFile(r *http.Request, rule formFileRule) (string, error) {
	file, header, err := r.FormFile(rule.field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s field: %w", rule.field, err)
	}
	defer file.Close()

	if !rule.pattern.MatchString(header.Filename) {
		return "", rule.errBad
	}
	if header.Size > h.cfg.MaxFileSize {
		return "", errFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	stagedPath := filepath.Join(h.cfg.UploadDir, uuid.NewString()+ext)

	dst, err := os.Create(stagedPath)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(stagedPath)
		return "", fmt.Errorf("failed to write staged file: %w", err)
	}

	return stagedPath, nil
}
