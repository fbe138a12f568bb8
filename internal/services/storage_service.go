// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/javajoker/grocery-browser/internal/config"
)

var ErrS3NotConfigured = errors.New("S3 client not configured")

// StorageService reads and writes catalog documents on local disk, over
// HTTP(S) or in S3.
type StorageService struct {
	s3Client   *s3.S3
	httpClient *http.Client
	config     config.AWSConfig
}

type Location struct {
	Scheme string // file, http, https or s3
	Bucket string
	Key    string
	Raw    string
}

func ParseLocation(raw string) (Location, error) {
	if raw == "" {
		return Location{}, fmt.Errorf("empty location")
	}
	if !strings.Contains(raw, "://") {
		return Location{Scheme: "file", Key: raw, Raw: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", raw, err)
	}
	switch u.Scheme {
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("s3 location must be s3://bucket/key, got %q", raw)
		}
		return Location{Scheme: "s3", Bucket: u.Host, Key: key, Raw: raw}, nil
	case "http", "https":
		return Location{Scheme: u.Scheme, Raw: raw}, nil
	case "file":
		return Location{Scheme: "file", Key: u.Path, Raw: raw}, nil
	default:
		return Location{}, fmt.Errorf("unsupported location scheme %q", u.Scheme)
	}
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	svc := &StorageService{httpClient: &http.Client{}, config: cfg}
	if cfg.AccessKeyID == "" && cfg.Endpoint == "" {
		// Local files and HTTP only
		return svc, nil
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	svc.s3Client = s3.New(sess)
	return svc, nil
}

// Open returns a reader for the document at location. Callers close it.
func (s *StorageService) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case "s3":
		return s.openS3(ctx, loc)
	case "http", "https":
		return s.openHTTP(ctx, loc)
	default:
		f, err := os.Open(loc.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", loc.Key, err)
		}
		return f, nil
	}
}

func (s *StorageService) openS3(ctx context.Context, loc Location) (io.ReadCloser, error) {
	if s.s3Client == nil {
		return nil, ErrS3NotConfigured
	}
	out, err := s.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s from S3: %w", loc.Raw, err)
	}
	return out.Body, nil
}

func (s *StorageService) openHTTP(ctx context.Context, loc Location) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.Raw, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", loc.Raw, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: status %d", loc.Raw, resp.StatusCode)
	}
	return resp.Body, nil
}

// Put writes body to location. HTTP locations are read-only.
func (s *StorageService) Put(ctx context.Context, location string, body []byte, contentType string) error {
	loc, err := ParseLocation(location)
	if err != nil {
		return err
	}

	switch loc.Scheme {
	case "s3":
		if s.s3Client == nil {
			return ErrS3NotConfigured
		}
		_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(loc.Bucket),
			Key:           aws.String(loc.Key),
			Body:          bytes.NewReader(body),
			ContentType:   aws.String(contentType),
			ContentLength: aws.Int64(int64(len(body))),
		})
		if err != nil {
			return fmt.Errorf("failed to upload to S3: %w", err)
		}
		return nil
	case "http", "https":
		return fmt.Errorf("cannot write to %s", loc.Raw)
	default:
		if dir := filepath.Dir(loc.Key); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(loc.Key, body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", loc.Key, err)
		}
		return nil
	}
}
