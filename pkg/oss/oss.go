// Package oss 媒体对象存储协作方
// 上传失败必须让所属的创建/更新操作在触碰聚合状态之前中止
package oss

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/utils"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// UploadResult 存储id+访问URL 视频附带探测到的时长
type UploadResult struct {
	URL      string
	PublicID string
	Duration float64
}

// MediaStore 上传/删除二进制媒体
type MediaStore interface {
	UploadVideo(ctx context.Context, localPath string) (*UploadResult, error)
	UploadImage(ctx context.Context, localPath, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

const (
	videoBucket = "videos"
	imageBucket = "pictures"
	location    = "us-east-1"
)

type MinioStore struct {
	client    *minio.Client
	publicURL string
}

func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool, publicURL string) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "minio client init failed")
	}
	return &MinioStore{client: client, publicURL: publicURL}, nil
}

func (s *MinioStore) UploadVideo(ctx context.Context, localPath string) (*UploadResult, error) {
	duration, err := utils.ProbeDuration(localPath)
	if err != nil {
		return nil, errors.WithMessage(err, "probe video duration failed")
	}
	objectName := "video/" + uuid.NewString() + filepath.Ext(localPath)
	if err := s.put(ctx, videoBucket, objectName, localPath, "video/mp4"); err != nil {
		return nil, err
	}
	return &UploadResult{
		URL:      s.objectURL(videoBucket, objectName),
		PublicID: videoBucket + "/" + objectName,
		Duration: duration,
	}, nil
}

func (s *MinioStore) UploadImage(ctx context.Context, localPath, contentType string) (*UploadResult, error) {
	var suffix string
	switch contentType {
	case "image/jpeg", "image/jpg":
		suffix = ".jpg"
	case "image/png":
		suffix = ".png"
	default:
		return nil, errors.WithMessagef(errors.New("unsupported image format"), "%s", contentType)
	}
	objectName := "thumbnail/" + uuid.NewString() + suffix
	if err := s.put(ctx, imageBucket, objectName, localPath, contentType); err != nil {
		return nil, err
	}
	return &UploadResult{
		URL:      s.objectURL(imageBucket, objectName),
		PublicID: imageBucket + "/" + objectName,
	}, nil
}

// Delete publicID形如"bucket/object/path"
func (s *MinioStore) Delete(ctx context.Context, publicID string) error {
	bucket, object := splitPublicID(publicID)
	if bucket == "" {
		return errors.Errorf("malformed public id: %s", publicID)
	}
	err := s.client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.WithMessagef(err, "remove %s failed", publicID)
	}
	return nil
}

func (s *MinioStore) put(ctx context.Context, bucket, objectName, localPath, contentType string) error {
	// 检查存储桶是否存在 不存在则创建
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.WithMessage(err, "check bucket error")
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: location}); err != nil {
			return errors.WithMessage(err, "create bucket error")
		}
	}
	info, err := s.client.FPutObject(ctx, bucket, objectName, localPath, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.WithMessagef(err, "upload %s failed", objectName)
	}
	logrus.Infof("uploaded %s/%s (%d bytes)", bucket, objectName, info.Size)
	return nil
}

func (s *MinioStore) objectURL(bucket, object string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, object)
}

func splitPublicID(publicID string) (bucket, object string) {
	for i := 0; i < len(publicID); i++ {
		if publicID[i] == '/' {
			return publicID[:i], publicID[i+1:]
		}
	}
	return "", ""
}
