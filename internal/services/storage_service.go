package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type StorageService interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	GetSignedURL(ctx context.Context, fileURL string) (string, error)
}

type S3StorageService struct {
	client  *s3.Client
	presign *s3.PresignClient
	region  string
	bucket  string
}

func NewS3StorageService(ctx context.Context, region, accessKey, secretKey, bucket string) (*S3StorageService, error) {
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("AWS credentials not set")
	}
	if region == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket name not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	log.Println("Connected to AWS S3 successfully")

	return &S3StorageService{
		client:  client,
		presign: s3.NewPresignClient(client),
		region:  region,
		bucket:  bucket,
	}, nil
}

func (s *S3StorageService) UploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	uploader := manager.NewUploader(s.client)

	ctxUpload, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err := uploader.Upload(ctxUpload, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

func (s *S3StorageService) DeleteFile(ctx context.Context, fileURL string) error {
	key, err := s.keyFromURL(fileURL)
	if err != nil {
		return err
	}

	ctxDelete, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = s.client.DeleteObject(ctxDelete, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

func (s *S3StorageService) GetSignedURL(ctx context.Context, fileURL string) (string, error) {
	key, err := s.keyFromURL(fileURL)
	if err != nil {
		return "", err
	}

	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(time.Hour))
	if err != nil {
		return "", fmt.Errorf("s3 presign failed: %w", err)
	}

	return request.URL, nil
}

func (s *S3StorageService) GetFile(ctx context.Context, fileURL string) ([]byte, error) {
	key, err := s.keyFromURL(fileURL)
	if err != nil {
		return nil, err
	}

	ctxGet, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	resp, err := s.client.GetObject(ctxGet, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get failed: %w", err)
	}
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *S3StorageService) keyFromURL(fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}

	expectedHost := fmt.Sprintf("%s.s3.%s.amazonaws.com", s.bucket, s.region)
	if parsed.Host != expectedHost {
		return "", fmt.Errorf("file url does not belong to configured bucket")
	}

	return strings.TrimPrefix(parsed.Path, "/"), nil
}
