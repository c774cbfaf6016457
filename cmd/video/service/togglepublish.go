package service

import (
	"context"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/model"
	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/video/dal/db"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
)

type TogglePublishService struct {
	videoDB *db.VideoDB
}

func NewTogglePublishService(videoDB *db.VideoDB) *TogglePublishService {
	return &TogglePublishService{videoDB: videoDB}
}

// TogglePublish 翻转发布状态 返回更新后的视频
func (s *TogglePublishService) TogglePublish(ctx context.Context, v viewer.Viewer, videoID string) (*model.Video, error) {
	id, err := docstore.ParseID(videoID)
	if err != nil {
		return nil, err
	}
	video, err := s.videoDB.FindVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.Is(video.Owner) {
		return nil, errors.WithMessage(errno.PermissionErr, "only the owner can toggle publish state")
	}
	patch := docstore.Doc{
		"isPublished": !video.IsPublished,
		"updatedAt":   time.Now().UTC(),
	}
	if err := s.videoDB.UpdateVideo(ctx, id, patch); err != nil {
		return nil, err
	}
	video.IsPublished = !video.IsPublished
	return video, nil
}
