package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"github.com/diewo77/consignation-app/internal/models"
)

// MaxPhotoBytes caps embedded photos so the persisted record stays within
// the local store's size limits.
const MaxPhotoBytes = 2 << 20 // 2 MiB

var (
	ErrUnsupportedMedia = errors.New("unsupported_media")
	ErrPhotoTooLarge    = errors.New("photo_too_large")
)

// PhotoUpload describes an incoming photo file.
type PhotoUpload struct {
	ContentType string
	Size        int64
	Reader      io.Reader
}

// PhotoResult carries the updated step, or the error that prevented the write.
type PhotoResult struct {
	Step models.Step
	Err  error
}

// UploadStepPhoto validates the upload synchronously, then reads and embeds
// it asynchronously. The declared media type must be an image and the
// declared size at most MaxPhotoBytes; violations are returned immediately
// and nothing is mutated.
//
// Other mutations may interleave before the read completes, so the step is
// re-looked-up by id (never by a captured position) once the data is in hand.
// Cancelling ctx aborts the read; the result channel always receives exactly
// one value.
func (s *ProcedureService) UploadStepPhoto(ctx context.Context, id string, up PhotoUpload) (<-chan PhotoResult, error) {
	if !strings.HasPrefix(up.ContentType, "image/") {
		return nil, ErrUnsupportedMedia
	}
	if up.Size > MaxPhotoBytes {
		return nil, ErrPhotoTooLarge
	}

	ch := make(chan PhotoResult, 1)
	go func() {
		data, err := readAll(ctx, up.Reader)
		if err != nil {
			ch <- PhotoResult{Err: err}
			return
		}
		if len(data) > MaxPhotoBytes {
			// declared size lied
			ch <- PhotoResult{Err: ErrPhotoTooLarge}
			return
		}
		uri := "data:" + up.ContentType + ";base64," + base64.StdEncoding.EncodeToString(data)

		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.doc.Steps {
			if s.doc.Steps[i].ID != id {
				continue
			}
			s.doc.Steps[i].Photo = uri
			ch <- PhotoResult{Step: s.doc.Steps[i], Err: s.persist()}
			return
		}
		ch <- PhotoResult{Err: ErrStepNotFound}
	}()
	return ch, nil
}

// readAll drains r, checking ctx between chunks so a cancelled or timed-out
// upload stops instead of hanging forever.
func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}
