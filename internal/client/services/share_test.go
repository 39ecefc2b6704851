package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/smartvoyage/internal/client/config"
	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shareConfig() *config.Config {
	return &config.Config{
		S3Bucket:       "itineraries",
		S3Region:       "ap-south-1",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3AccessKey:    "minioadmin",
		S3SecretKey:    "minioadmin",
		ShareLinkTTL:   2 * time.Hour,
	}
}

// stubS3 swaps the AWS seams for the duration of the test.
func stubS3(t *testing.T, putURL string, putErr, getErr error) (*s3.PutObjectInput, *s3.GetObjectInput, *string) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	var (
		putIn    s3.PutObjectInput
		getIn    s3.GetObjectInput
		endpoint string
	)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "ap-south-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		endpoint = aws.ToString(opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		putIn = *in
		if putErr != nil {
			return nil, putErr
		}
		return &v4.PresignedHTTPRequest{URL: putURL, Method: http.MethodPut}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		getIn = *in
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 2*time.Hour, po.Expires)
		if getErr != nil {
			return nil, getErr
		}
		return &v4.PresignedHTTPRequest{URL: "https://share.example/" + aws.ToString(in.Key), Method: http.MethodGet}, nil
	}

	return &putIn, &getIn, &endpoint
}

func TestShareService_Disabled(t *testing.T) {
	svc := NewShareService(&config.Config{}, nopLog())

	_, err := svc.Share(context.Background(), "x", models.JourneyForm{})
	require.ErrorIs(t, err, ErrSharingDisabled)
	require.ErrorIs(t, err, common.ErrNotConfigured)
}

func TestShareService_UploadsAndReturnsDownloadLink(t *testing.T) {
	var uploaded []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "text/markdown", r.Header.Get("Content-Type"))
		uploaded, _ = io.ReadAll(r.Body)
	}))
	defer ts.Close()

	putIn, getIn, endpoint := stubS3(t, ts.URL+"/itineraries/key?X-Amz-Signature=1", nil, nil)

	svc := NewShareService(shareConfig(), nopLog())
	link, err := svc.Share(context.Background(), "Day 1: Ghats", models.JourneyForm{Destination: "Varanasi"})
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000", *endpoint)
	assert.Equal(t, "itineraries", aws.ToString(putIn.Bucket))
	assert.Equal(t, aws.ToString(putIn.Key), aws.ToString(getIn.Key))
	assert.Regexp(t, regexp.MustCompile(`^itineraries/\d{4}/\d{1,2}/\d{1,2}/[0-9a-f-]{36}\.md$`), aws.ToString(putIn.Key))
	assert.Equal(t, "https://share.example/"+aws.ToString(putIn.Key), link)
	assert.Contains(t, string(uploaded), "destination: Varanasi")
	assert.Contains(t, string(uploaded), "Day 1: Ghats")
}

func TestShareService_Errors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("presign put", func(t *testing.T) {
		stubS3(t, "", boom, nil)
		_, err := NewShareService(shareConfig(), nopLog()).Share(context.Background(), "x", models.JourneyForm{})
		require.ErrorIs(t, err, boom)
		require.ErrorContains(t, err, "presigning upload")
	})

	t.Run("upload rejected", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		stubS3(t, ts.URL, nil, nil)
		_, err := NewShareService(shareConfig(), nopLog()).Share(context.Background(), "x", models.JourneyForm{})
		require.ErrorContains(t, err, "error uploading itinerary")
	})

	t.Run("presign get", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		stubS3(t, ts.URL, nil, boom)
		_, err := NewShareService(shareConfig(), nopLog()).Share(context.Background(), "x", models.JourneyForm{})
		require.ErrorIs(t, err, boom)
		require.ErrorContains(t, err, "presigning download")
	})

	t.Run("aws config", func(t *testing.T) {
		stubS3(t, "", nil, nil)
		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, boom
		}
		_, err := NewShareService(shareConfig(), nopLog()).Share(context.Background(), "x", models.JourneyForm{})
		require.ErrorIs(t, err, boom)
	})
}

func TestGetRandomStorageKey_Format(t *testing.T) {
	k := GetRandomStorageKey(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^itineraries/2025/3/9/[0-9a-f-]{36}\.md$`), k)
}
