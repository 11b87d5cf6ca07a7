package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/smithy-go"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/apperr"
)

// Uploader is satisfied by S3Store; tests plug in fakes.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

const (
	MaxImageBytes  = 8 << 20
	thumbnailWidth = 320
)

var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds size limit")
)

type Image struct {
	Key          string `json:"key"`
	URL          string `json:"url,omitempty"`
	ThumbnailKey string `json:"thumbnail_key,omitempty"`
	Size         int64  `json:"size"`
}

type Service struct {
	store Uploader
}

func NewService(store Uploader) *Service {
	return &Service{store: store}
}

// UploadListingImage stores a listing photo plus a jpeg thumbnail. A
// bucket policy rejection surfaces as ErrPermissionDenied so callers can
// distinguish it from transient failures.
func (s *Service) UploadListingImage(ctx context.Context, userID, contentType string, data []byte) (*Image, error) {
	ext, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedType
	}
	if len(data) > MaxImageBytes {
		return nil, ErrTooLarge
	}

	key := fmt.Sprintf("%s/%d-%s.%s", userID, time.Now().Unix(), uuid.NewString()[:8], ext)
	url, err := s.store.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, classify(err)
	}

	img := &Image{Key: key, URL: url, Size: int64(len(data))}
	if thumb, terr := thumbnail(data); terr == nil {
		thumbKey := key + "_thumb.jpg"
		if _, uerr := s.store.Upload(ctx, thumbKey, "image/jpeg", thumb); uerr == nil {
			img.ThumbnailKey = thumbKey
		}
	}
	return img, nil
}

func thumbnail(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	dst := imaging.Resize(src, thumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDenied" {
		return fmt.Errorf("%w: %v", apperr.ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %v", apperr.ErrRemoteWriteFailed, err)
}
