package services

import (
	"context"
	"fmt"
	"io"

	"collabBoard/configs"
	"collabBoard/internal/logging"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioService is the FileManager backed by a MinIO (or any S3 compatible) server.
type MinioService struct {
	minioClient *minio.Client
	config      *configs.Config
}

func NewMinioService(ctx context.Context, config *configs.Config) (*MinioService, error) {
	endpoint := config.Viper.GetString("minio.endpoint")
	accessKeyID := config.Viper.GetString("minio.access_key_id")
	secretAccessKey := config.Viper.GetString("minio.secret_access_key")
	useSSL := config.Viper.GetBool("minio.use_ssl")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	ms := &MinioService{
		minioClient: minioClient,
		config:      config,
	}
	if err := ms.ensureBucket(ctx, config.Viper.GetString("minio.bucket")); err != nil {
		return nil, err
	}
	return ms, nil
}

func (ms *MinioService) ensureBucket(ctx context.Context, bucketName string) error {
	err := ms.minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	if err == nil {
		logging.Info().Str("bucket", bucketName).Msg("created bucket")
		return nil
	}

	exists, errBucketExists := ms.minioClient.BucketExists(ctx, bucketName)
	if errBucketExists == nil && exists {
		logging.Debug().Str("bucket", bucketName).Msg("bucket already exists")
		return nil
	}
	return err
}

func (ms *MinioService) UploadFile(
	ctx context.Context,
	objectKey string,
	file io.Reader,
	fileSize int64,
	contentType string,
	bucketName string,
) (string, error) {
	info, err := ms.minioClient.PutObject(ctx, bucketName, objectKey, file, fileSize, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return ms.GetPublicFileUrl(bucketName, info.Key), nil
}

func (ms *MinioService) GetPublicFileUrl(bucketName, fileKey string) string {
	scheme := "http"
	if ms.config.Viper.GetBool("minio.use_ssl") {
		scheme = "https"
	}
	externalEndpoint := ms.config.Viper.GetString("minio.external_endpoint")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, externalEndpoint, bucketName, fileKey)
}
