package db

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/pkg/errors"
)

// DeleteVideoDependents 级联删除 视频删除后其点赞/评论/评论点赞一并失效
func (d *VideoDB) DeleteVideoDependents(ctx context.Context, videoID docstore.ID) error {
	comments, err := d.store.Find(ctx, constants.CollectionComments, docstore.Eq("video", videoID))
	if err != nil {
		return errors.WithMessage(err, "dao.DeleteVideoDependents find comments failed")
	}
	if len(comments) > 0 {
		ids := make([]any, 0, len(comments))
		for _, c := range comments {
			ids = append(ids, c["_id"])
		}
		// 先删评论上的点赞
		if _, err := d.store.DeleteMany(ctx, constants.CollectionLikes, docstore.And(
			docstore.Eq("targetKind", constants.LikeTargetComment),
			docstore.In("targetId", ids...),
		)); err != nil {
			return errors.WithMessage(err, "dao.DeleteVideoDependents delete comment likes failed")
		}
	}
	if _, err := d.store.DeleteMany(ctx, constants.CollectionComments, docstore.Eq("video", videoID)); err != nil {
		return errors.WithMessage(err, "dao.DeleteVideoDependents delete comments failed")
	}
	if _, err := d.store.DeleteMany(ctx, constants.CollectionLikes, docstore.And(
		docstore.Eq("targetKind", constants.LikeTargetVideo),
		docstore.Eq("targetId", videoID),
	)); err != nil {
		return errors.WithMessage(err, "dao.DeleteVideoDependents delete video likes failed")
	}
	return nil
}
