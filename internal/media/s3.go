// Package media publishes product images to an S3-compatible bucket (AWS S3
// or MinIO). Uploads go through a short-lived presigned PUT URL.
package media

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophcart/internal/netx"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	now = time.Now
)

const presignExpiry = 15 * time.Minute

type Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

type S3Publisher struct {
	cfg  Config
	http *http.Client
}

// NewS3Publisher returns a publisher for cfg. A nil httpClient means
// http.DefaultClient.
func NewS3Publisher(cfg Config, httpClient *http.Client) *S3Publisher {
	return &S3Publisher{cfg: cfg, http: httpClient}
}

func (p *S3Publisher) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(p.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.cfg.AccessKey,
			p.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if p.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(p.cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})
	return s3.NewPresignClient(client), nil
}

// Publish uploads body under a fresh key derived from name and returns the
// public URL of the object.
func (p *S3Publisher) Publish(ctx context.Context, name string, body []byte) (string, error) {
	pc, err := p.presignClient(ctx)
	if err != nil {
		return "", err
	}

	key := ObjectKey(name)
	contentType := ContentType(name, body)

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, p.http, req.URL, body, contentType); err != nil {
		return "", err
	}

	return PublicURL(p.cfg.BaseEndpoint, p.cfg.Bucket, key), nil
}

// ObjectKey is products/<yyyy>/<mm>/<dd>/<uuid><ext of name>.
func ObjectKey(name string) string {
	d := now()
	ext := strings.ToLower(path.Ext(name))
	return fmt.Sprintf("products/%04d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}

// ContentType guesses the MIME type from the file extension, then from the
// content.
func ContentType(name string, body []byte) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return http.DetectContentType(body)
}

// PublicURL is the path-style URL of key in bucket.
func PublicURL(endpoint, bucket, key string) string {
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	}
	return strings.TrimRight(endpoint, "/") + "/" + bucket + "/" + key
}
