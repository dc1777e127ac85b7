package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ScreenshotService captures run-outcome screenshots, saves them under
// the local screenshot directory, and uploads them to S3 when
// configured. The local file is the fallback when S3 is unavailable.
type ScreenshotService struct {
	dir       string
	s3Service *S3Service
}

// NewScreenshotService creates the service and makes sure the local
// screenshot directory exists.
func NewScreenshotService(dir string) *ScreenshotService {
	if dir == "" {
		dir = "./screenshots"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Warning: could not create screenshot directory %s: %v", dir, err)
	}

	s3Service, err := NewS3Service()
	if err != nil {
		log.Printf("Warning: S3 not configured, screenshots stay local: %v", err)
		s3Service = nil
	}

	return &ScreenshotService{
		dir:       dir,
		s3Service: s3Service,
	}
}

// Capture takes a full-page screenshot and returns a reference to it:
// the S3 key when upload succeeds, otherwise the local serving path.
// Files are named by outcome prefix and timestamp.
func (s *ScreenshotService) Capture(ctx context.Context, driver PageDriver, prefix string) (string, error) {
	data, err := driver.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to take screenshot: %w", err)
	}

	filename := fmt.Sprintf("%s_%d.png", prefix, time.Now().Unix())
	localPath := filepath.Join(s.dir, filename)
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save screenshot locally: %w", err)
	}

	if s.s3Service != nil {
		key := "screenshots/" + filename
		if err := s.s3Service.UploadBytes(data, key, "image/png"); err != nil {
			log.Printf("Failed to upload screenshot to S3, keeping local copy: %v", err)
		} else {
			log.Printf("Screenshot uploaded to S3 with key: %s", key)
			return key, nil
		}
	}

	log.Printf("Screenshot saved locally: %s", localPath)
	return "/screenshots/" + filename, nil
}
