package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

var ErrUploadNotConfigured = errors.New("image upload is not configured")

// CloudUploader sends images to an unsigned-upload endpoint speaking the
// cloudinary contract: form field "file" plus "upload_preset", answered with
// a JSON body carrying "secure_url".
type CloudUploader struct {
	endpoint string
	preset   string
	timeout  time.Duration
}

func NewCloudUploader(endpoint, preset string, timeout time.Duration) *CloudUploader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CloudUploader{endpoint: endpoint, preset: preset, timeout: timeout}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (u *CloudUploader) Put(_ context.Context, image string) (string, error) {
	if u == nil || u.endpoint == "" {
		return "", ErrUploadNotConfigured
	}

	agent := fiber.Post(u.endpoint).
		Timeout(u.timeout).
		JSON(fiber.Map{"file": image, "upload_preset": u.preset})

	var resp uploadResponse
	code, _, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		return "", errs[0]
	}
	if code >= fiber.StatusBadRequest {
		if resp.Error.Message != "" {
			return "", fmt.Errorf("upload failed: %d %s", code, resp.Error.Message)
		}
		return "", fmt.Errorf("upload failed: %d", code)
	}
	if resp.SecureURL == "" {
		return "", errors.New("upload response missing secure_url")
	}
	return resp.SecureURL, nil
}
