package service

import (
	"context"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/model"
	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/video/dal/db"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/oss"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type PublishVideoService struct {
	videoDB *db.VideoDB
	media   oss.MediaStore
}

func NewPublishVideoService(videoDB *db.VideoDB, media oss.MediaStore) *PublishVideoService {
	return &PublishVideoService{videoDB: videoDB, media: media}
}

type PublishVideoRequest struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
	ThumbnailType string
}

// PublishVideo 上传媒体并落库 任一上传失败则在触碰存储之前中止
// 新视频默认未发布
func (s *PublishVideoService) PublishVideo(ctx context.Context, v viewer.Viewer, req *PublishVideoRequest) (*model.Video, error) {
	owner, ok := v.ID()
	if !ok {
		return nil, errors.WithMessage(errno.PermissionErr, "publish requires an authenticated owner")
	}
	if req.Title == "" || req.Description == "" {
		return nil, errors.WithMessage(errno.ParamErr, "title and description are required")
	}
	if req.VideoPath == "" || req.ThumbnailPath == "" {
		return nil, errors.WithMessage(errno.ParamErr, "video file and thumbnail are required")
	}

	videoFile, err := s.media.UploadVideo(ctx, req.VideoPath)
	if err != nil {
		return nil, errors.WithMessage(err, "upload video failed")
	}
	thumbnail, err := s.media.UploadImage(ctx, req.ThumbnailPath, req.ThumbnailType)
	if err != nil {
		// 已上传的视频对象不留孤儿
		if derr := s.media.Delete(ctx, videoFile.PublicID); derr != nil {
			logrus.Warnf("cleanup uploaded video %s failed: %v", videoFile.PublicID, derr)
		}
		return nil, errors.WithMessage(err, "upload thumbnail failed")
	}

	now := time.Now().UTC()
	video := &model.Video{
		ID:          docstore.NewID(),
		Owner:       owner,
		Title:       req.Title,
		Description: req.Description,
		VideoFile:   model.MediaFile{URL: videoFile.URL, PublicID: videoFile.PublicID},
		Thumbnail:   model.MediaFile{URL: thumbnail.URL, PublicID: thumbnail.PublicID},
		Duration:    videoFile.Duration,
		IsPublished: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.videoDB.InsertVideo(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}
