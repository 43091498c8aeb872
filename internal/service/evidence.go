package service

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"rollcall/internal/config"
	"rollcall/internal/domain"
)

// evidenceUploadExpiry bounds how long a client may take to upload a photo.
const evidenceUploadExpiry = 15 * time.Minute

// EvidenceService issues presigned URLs for attendance photo evidence on
// S3-compatible object storage. The ledger itself never inspects photo
// content; it only stores the opaque s3:// reference this service mints.
type EvidenceService struct {
	presignClient *s3.PresignClient
	bucket        string
	prefix        string
	now           func() time.Time
}

// NewEvidenceService creates a presigner for the configured S3 endpoint,
// using path-style addressing for S3-compatible providers.
func NewEvidenceService(cfg *config.Config, now func() time.Time) (*EvidenceService, error) {
	if !cfg.HasS3Config() {
		return nil, fmt.Errorf("S3 evidence storage is not configured")
	}
	if now == nil {
		now = time.Now
	}

	client := s3.New(s3.Options{
		Region: *cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			*cfg.S3KeyID, *cfg.S3Secret, "",
		),
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s", *cfg.S3Endpoint)),
		UsePathStyle: true,
	})

	return &EvidenceService{
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.S3BucketName(),
		prefix:        "evidence",
		now:           now,
	}, nil
}

// UploadTicket is a one-shot grant to PUT a photo and the canonical
// reference the client should attach to its mark request.
type UploadTicket struct {
	UploadURL   string
	EvidenceRef string
	ExpiresAt   time.Time
}

// CreateUploadTicket presigns a PUT for a new evidence object owned by
// identityID. contentType may be empty.
func (s *EvidenceService) CreateUploadTicket(ctx context.Context, identityID, contentType string) (*UploadTicket, error) {
	identityID = strings.TrimSpace(identityID)
	if identityID == "" {
		return nil, domain.ErrValidation("identity_id is required")
	}

	key := path.Join(s.prefix, identityID, domain.NewID()+evidenceExtension(contentType))
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	result, err := s.presignClient.PresignPutObject(ctx, input,
		s3.WithPresignExpires(evidenceUploadExpiry),
	)
	if err != nil {
		return nil, domain.ErrUnavailable(err, "presign evidence upload")
	}

	return &UploadTicket{
		UploadURL:   result.URL,
		EvidenceRef: fmt.Sprintf("s3://%s/%s", s.bucket, key),
		ExpiresAt:   s.now().Add(evidenceUploadExpiry),
	}, nil
}

// PresignView generates a temporary GET URL for a stored evidence_ref, for
// dashboard photo viewing. The ref must be an s3:// URI minted by this
// service.
func (s *EvidenceService) PresignView(ctx context.Context, evidenceRef string, expiry time.Duration) (string, error) {
	bucket, key, err := parseEvidenceRef(evidenceRef)
	if err != nil {
		return "", err
	}

	result, err := s.presignClient.PresignGetObject(ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(expiry),
	)
	if err != nil {
		return "", domain.ErrUnavailable(err, "presign evidence view for %q", evidenceRef)
	}
	return result.URL, nil
}

// evidenceExtension picks the object suffix for the upload's content
// type. Unknown types get no extension; the content type itself travels
// in the presigned PUT.
func evidenceExtension(contentType string) string {
	switch contentType {
	case "", "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

// parseEvidenceRef extracts bucket and key from an "s3://bucket/key" URI.
func parseEvidenceRef(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", domain.ErrValidation("parse evidence ref %q: %v", ref, err)
	}
	if u.Scheme != "s3" {
		return "", "", domain.ErrValidation("expected s3:// scheme in evidence ref %q", ref)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", domain.ErrValidation("empty key in evidence ref %q", ref)
	}
	return bucket, key, nil
}
