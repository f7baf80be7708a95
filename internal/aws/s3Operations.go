package aws

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/mahirjain10/pixelmancer/internal/utils"
)

const presignExpiry = 15 * time.Minute

// Creating Dependency
type S3Service struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucketName string
}

// Using Constructor Pattern to initalize our s3Service
func NewS3Service(client *s3.Client, bucketName string) *S3Service {
	return &S3Service{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucketName: bucketName,
	}
}

func (service *S3Service) BucketName() string {
	return service.bucketName
}

// UploadtoS3Object puts the file at filePath under key and returns a
// pre-signed download URL for it.
func (service *S3Service) UploadtoS3Object(parentCtx context.Context, key string, filePath string) (string, error) {
	ctx, cancel := context.WithTimeout(parentCtx, 1*time.Minute)
	defer cancel()

	imageBuffer, err := utils.ReadImageBuffer(filePath)
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket:            aws.String(service.bucketName),
		Key:               aws.String(key),
		Body:              bytes.NewReader(imageBuffer),
		ContentType:       aws.String("image/png"),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
	}
	if _, err := service.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	req, err := service.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(service.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign url: %w", err)
	}

	log.Printf("[upload] s3://%s/%s", service.bucketName, key)
	return req.URL, nil
}
