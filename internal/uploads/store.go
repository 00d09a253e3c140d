package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/DavidJ001/patient-request-form/internal/booking"
	"github.com/DavidJ001/patient-request-form/internal/observability/metrics"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

var uploadsTracer = otel.Tracer("patient-request-form/uploads")

// ErrTooLarge is returned for referral documents over MaxReferralSize.
var ErrTooLarge = errors.New("referral document exceeds 5MB")

// S3API is the subset of the S3 client used by Service.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Service stores referral documents and hands back the opaque handle the
// booking form keeps. The bytes never travel with the booking request.
type Service struct {
	client  S3API
	bucket  string
	maxSize int64
	metrics *metrics.BookingMetrics
	now     func() time.Time
	logger  *logging.Logger
}

// NewService creates an upload service. If bucket is empty Enabled reports
// false and Store refuses uploads.
func NewService(client S3API, bucket string, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		client:  client,
		bucket:  bucket,
		maxSize: booking.MaxReferralSize,
		metrics: m,
		now:     time.Now,
		logger:  logger,
	}
}

// Enabled returns true if uploads are configured.
func (s *Service) Enabled() bool {
	return s != nil && s.bucket != "" && s.client != nil
}

// MaxSize is the enforced upload limit in bytes.
func (s *Service) MaxSize() int64 { return s.maxSize }

// Store checks name and size, then writes the document to S3.
func (s *Service) Store(ctx context.Context, name string, body io.Reader) (booking.Document, error) {
	if !s.Enabled() {
		return booking.Document{}, fmt.Errorf("uploads: referral storage not configured")
	}
	ctx, span := uploadsTracer.Start(ctx, "uploads.store", trace.WithAttributes(attribute.String("s3.bucket", s.bucket)))
	defer span.End()
	name = filepath.Base(strings.TrimSpace(name))
	if err := booking.CheckReferralName(name); err != nil {
		s.metrics.ObserveUpload("rejected_type", 0)
		return booking.Document{}, err
	}

	// Read one byte past the limit so oversize files are detected without
	// buffering them whole.
	data, err := io.ReadAll(io.LimitReader(body, s.maxSize+1))
	if err != nil {
		return booking.Document{}, fmt.Errorf("uploads: read body: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		s.metrics.ObserveUpload("rejected_size", 0)
		return booking.Document{}, ErrTooLarge
	}

	now := s.now().UTC()
	key := path.Join("referrals",
		fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day()),
		uuid.NewString()+strings.ToLower(filepath.Ext(name)))
	contentType := booking.ReferralContentType(name)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      map[string]string{"original-name": name},
	})
	if err != nil {
		s.metrics.ObserveUpload("failed", 0)
		return booking.Document{}, fmt.Errorf("uploads: s3 put %s: %w", key, err)
	}

	s.metrics.ObserveUpload("stored", int64(len(data)))
	s.logger.Info("referral document stored", "s3_key", key, "size", len(data), "content_type", contentType)
	return booking.Document{
		Name:        name,
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}
