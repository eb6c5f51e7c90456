package storage

import (
	"context"
	"io"
	"time"

	"github.com/roberta/studio/internal/metrics"
)

// Instrumented wraps a Storage and records every call in the storage metrics.
type Instrumented struct {
	next Storage
}

// NewInstrumented returns next wrapped with metrics.
func NewInstrumented(next Storage) *Instrumented {
	return &Instrumented{next: next}
}

func (s *Instrumented) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	err := s.next.Upload(ctx, key, reader, size, contentType)
	metrics.ObserveStorage("upload", err)
	if err == nil && size > 0 {
		metrics.UploadedBytesTotal.Add(float64(size))
	}
	return err
}

func (s *Instrumented) Delete(ctx context.Context, key string) error {
	err := s.next.Delete(ctx, key)
	metrics.ObserveStorage("delete", err)
	return err
}

func (s *Instrumented) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.next.PresignGet(ctx, key, ttl)
	metrics.ObserveStorage("presign", err)
	return u, err
}
