package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/smartvoyage/internal/client/config"
	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
	"github.com/dmitrijs2005/smartvoyage/internal/netx"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	uploadObject = netx.UploadToPresignedURL
)

// uploadURLTTL bounds the presigned PUT; the upload follows immediately.
const uploadURLTTL = 15 * time.Minute

// ErrSharingDisabled is returned when no object store is configured.
var ErrSharingDisabled = fmt.Errorf("itinerary sharing: %w", common.ErrNotConfigured)

// ShareService publishes an itinerary to object storage and hands back a
// time-limited download link.
type ShareService interface {
	Share(ctx context.Context, itinerary string, form models.JourneyForm) (string, error)
}

type shareService struct {
	config     *config.Config
	httpClient *http.Client
	log        logging.Logger
	now        func() time.Time
}

func NewShareService(cfg *config.Config, log logging.Logger) ShareService {
	return &shareService{config: cfg, httpClient: http.DefaultClient, log: log.With("module", "share"), now: time.Now}
}

// GetRandomStorageKey returns a fresh object key partitioned by date.
func GetRandomStorageKey(d time.Time) string {
	return fmt.Sprintf("itineraries/%d/%d/%d/%v.md", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *shareService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func (s *shareService) Share(ctx context.Context, itinerary string, form models.JourneyForm) (string, error) {
	if !s.config.SharingEnabled() {
		return "", ErrSharingDisabled
	}

	now := s.now()
	doc, err := RenderMarkdown(itinerary, form, now)
	if err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey(now)

	put, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String("text/markdown"),
	}, s3.WithPresignExpires(uploadURLTTL))
	if err != nil {
		return "", fmt.Errorf("error presigning upload: %w", err)
	}

	if err := uploadObject(ctx, s.httpClient, put.URL, doc, "text/markdown"); err != nil {
		return "", fmt.Errorf("error uploading itinerary: %w", err)
	}

	get, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.ShareLinkTTL))
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}

	s.log.Info(ctx, "itinerary shared", "key", key, "expires_in", s.config.ShareLinkTTL.String())
	return get.URL, nil
}
