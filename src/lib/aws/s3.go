package aws

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func GetS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := s3.NewFromConfig(cfg)
	return svc
}

// S3SignedDownloadURL mints a time-limited link, scoped for forced
// download.
func S3SignedDownloadURL(ctx context.Context, bucket string, key string, ttl time.Duration) (string, error) {
	client := GetS3Client()
	if client == nil {
		return "", fmt.Errorf("s3 client unavailable")
	}
	pre := s3.NewPresignClient(client)
	r, err := pre.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String("attachment"),
	}, func(po *s3.PresignOptions) {
		po.Expires = ttl
	})
	if err != nil {
		log.Printf("Could not generate presigned URL for object [%s]: %s\n", key, err.Error())
		return "", err
	}
	return r.URL, nil
}

// S3SignedUploadURL mints a time-limited PUT URL for one object key.
func S3SignedUploadURL(ctx context.Context, bucket string, key string, contentType string, ttl time.Duration) (string, error) {
	client := GetS3Client()
	if client == nil {
		return "", fmt.Errorf("s3 client unavailable")
	}
	pre := s3.NewPresignClient(client)
	input := s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	r, err := pre.PresignPutObject(ctx, &input, func(po *s3.PresignOptions) {
		po.Expires = ttl
	})
	if err != nil {
		log.Printf("Could not generate upload URL for object [%s]: %s\n", key, err.Error())
		return "", err
	}
	return r.URL, nil
}
