package service

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/video/dal/db"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/oss"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type DeleteVideoService struct {
	videoDB *db.VideoDB
	media   oss.MediaStore
}

func NewDeleteVideoService(videoDB *db.VideoDB, media oss.MediaStore) *DeleteVideoService {
	return &DeleteVideoService{videoDB: videoDB, media: media}
}

// DeleteVideo 仅所有者可删 先删文档再清附属数据
// 对象存储删除失败只告警 不回滚
func (s *DeleteVideoService) DeleteVideo(ctx context.Context, v viewer.Viewer, videoID string) error {
	id, err := docstore.ParseID(videoID)
	if err != nil {
		return err
	}
	video, err := s.videoDB.FindVideo(ctx, id)
	if err != nil {
		return err
	}
	if !v.Is(video.Owner) {
		return errors.WithMessage(errno.PermissionErr, "only the owner can delete this video")
	}

	// 并发重复删除 第二个调用在此得到NotFoundErr
	if err := s.videoDB.DeleteVideo(ctx, id); err != nil {
		return err
	}

	if video.VideoFile.PublicID != "" {
		if err := s.media.Delete(ctx, video.VideoFile.PublicID); err != nil {
			logrus.Warnf("delete video object %s failed: %v", video.VideoFile.PublicID, err)
		}
	}
	if video.Thumbnail.PublicID != "" {
		if err := s.media.Delete(ctx, video.Thumbnail.PublicID); err != nil {
			logrus.Warnf("delete thumbnail object %s failed: %v", video.Thumbnail.PublicID, err)
		}
	}

	if err := s.videoDB.DeleteVideoDependents(ctx, id); err != nil {
		return err
	}
	return nil
}
