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

type UpdateVideoService struct {
	videoDB *db.VideoDB
	media   oss.MediaStore
}

func NewUpdateVideoService(videoDB *db.VideoDB, media oss.MediaStore) *UpdateVideoService {
	return &UpdateVideoService{videoDB: videoDB, media: media}
}

type UpdateVideoRequest struct {
	VideoID       string
	Title         string
	Description   string
	ThumbnailPath string
	ThumbnailType string
}

// UpdateVideo 仅所有者可改 新缩略图换旧 旧对象在落库成功后删除
func (s *UpdateVideoService) UpdateVideo(ctx context.Context, v viewer.Viewer, req *UpdateVideoRequest) (*model.Video, error) {
	id, err := docstore.ParseID(req.VideoID)
	if err != nil {
		return nil, err
	}
	if req.Title == "" || req.Description == "" {
		return nil, errors.WithMessage(errno.ParamErr, "title and description are required")
	}

	video, err := s.videoDB.FindVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.Is(video.Owner) {
		return nil, errors.WithMessage(errno.PermissionErr, "only the owner can edit this video")
	}

	patch := docstore.Doc{
		"title":       req.Title,
		"description": req.Description,
		"updatedAt":   time.Now().UTC(),
	}
	oldThumbnail := ""
	if req.ThumbnailPath != "" {
		thumbnail, err := s.media.UploadImage(ctx, req.ThumbnailPath, req.ThumbnailType)
		if err != nil {
			return nil, errors.WithMessage(err, "upload thumbnail failed")
		}
		patch["thumbnail"] = docstore.Doc{"url": thumbnail.URL, "publicId": thumbnail.PublicID}
		oldThumbnail = video.Thumbnail.PublicID
	}

	if err := s.videoDB.UpdateVideo(ctx, id, patch); err != nil {
		return nil, err
	}
	if oldThumbnail != "" {
		if err := s.media.Delete(ctx, oldThumbnail); err != nil {
			logrus.Warnf("delete old thumbnail %s failed: %v", oldThumbnail, err)
		}
	}
	return s.videoDB.FindVideo(ctx, id)
}
