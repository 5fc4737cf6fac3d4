// internal/services/storage_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/skillset/skillset-backend/internal/config"
)

const uploadURLExpiry = 15 * time.Minute

// StoredObject is a readable handle on a stored object. The caller owns
// Body and must close it.
type StoredObject struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// ObjectStorage issues short-lived upload URLs and streams stored
// objects back by their canonical path.
type ObjectStorage interface {
	IssueUploadURL() (uploadURL, objectPath string, err error)
	Open(objectPath string) (*StoredObject, error)
}

// S3ObjectStorage implements ObjectStorage on an S3 bucket.
type S3ObjectStorage struct {
	s3Client *s3.S3
	bucket   string
}

func NewS3ObjectStorage(cfg *config.Config) (*S3ObjectStorage, error) {
	awsConfig := &aws.Config{Region: aws.String(cfg.AWS.Region)}
	if cfg.AWS.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3ObjectStorage{
		s3Client: s3.New(sess),
		bucket:   cfg.AWS.S3Bucket,
	}, nil
}

// IssueUploadURL returns a presigned PUT URL and the canonical object
// path the client reports back once the upload completes. Keys are
// unique and namespaced under uploads/.
func (s *S3ObjectStorage) IssueUploadURL() (string, string, error) {
	key := "uploads/" + uuid.New().String()

	req, _ := s.s3Client.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	uploadURL, err := req.Presign(uploadURLExpiry)
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload URL: %w", err)
	}

	return uploadURL, ObjectPathPrefix + key, nil
}

func (s *S3ObjectStorage) Open(objectPath string) (*StoredObject, error) {
	if !strings.HasPrefix(objectPath, ObjectPathPrefix) {
		return nil, ErrObjectNotFound
	}
	key := strings.TrimPrefix(objectPath, ObjectPathPrefix)

	out, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var awsErr awserr.Error
		if errors.As(err, &awsErr) {
			switch awsErr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return nil, ErrObjectNotFound
			}
		}
		return nil, fmt.Errorf("failed to fetch object: %w", err)
	}

	return &StoredObject{
		Body:          out.Body,
		ContentType:   aws.StringValue(out.ContentType),
		ContentLength: aws.Int64Value(out.ContentLength),
	}, nil
}
