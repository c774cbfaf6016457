package service

import (
	"context"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/interaction/dal/db"
	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/model"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pagination"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pipeline"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
)

type CommentService struct {
	store     docstore.Store
	commentDB *db.CommentDB
}

func NewCommentService(store docstore.Store) *CommentService {
	return &CommentService{store: store, commentDB: db.NewCommentDB(store)}
}

// GetVideoComments 视频评论列表 新评论在前
// 每条附作者摘要/点赞数/观察者是否已赞
func (s *CommentService) GetVideoComments(ctx context.Context, v viewer.Viewer, videoID, page, limit string) (*pipeline.Result, error) {
	id, err := docstore.ParseID(videoID)
	if err != nil {
		return nil, err
	}
	// 视频不存在与空评论区要区分开
	if _, err := s.store.FindOne(ctx, constants.CollectionVideos, docstore.Eq("_id", id)); err != nil {
		return nil, errors.WithMessage(err, "video")
	}

	res, err := pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionComments,
		Viewer:     v,
		Stages: []pipeline.Stage{
			pipeline.Match(docstore.Eq("video", id)),
			pipeline.Join(pipeline.JoinSpec{
				From:         constants.CollectionUsers,
				LocalField:   "owner",
				ForeignField: "_id",
				As:           "owner",
				Pipeline: []pipeline.Stage{
					pipeline.Project("_id", "username", "fullName", "avatar.url"),
				},
			}),
			pipeline.Join(pipeline.JoinSpec{
				From:         constants.CollectionLikes,
				LocalField:   "_id",
				ForeignField: "targetId",
				As:           "likes",
				Pipeline: []pipeline.Stage{
					pipeline.Match(docstore.Eq("targetKind", constants.LikeTargetComment)),
				},
			}),
			pipeline.Derive(
				pipeline.Count("likesCount", "likes"),
				pipeline.ContainsViewer("isLiked", "likes", "likedBy"),
				pipeline.First("owner", "owner"),
			),
			pipeline.SortBy("createdAt", true),
			pipeline.Paginate(pagination.Resolve(page, limit)),
			pipeline.Project("_id", "content", "createdAt", "owner", "likesCount", "isLiked"),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "video comments pipeline failed")
	}
	return res, nil
}

func (s *CommentService) AddComment(ctx context.Context, v viewer.Viewer, videoID, content string) (*model.Comment, error) {
	owner, ok := v.ID()
	if !ok {
		return nil, errors.WithMessage(errno.PermissionErr, "commenting requires sign in")
	}
	if content == "" {
		return nil, errors.WithMessage(errno.ParamErr, "content is required")
	}
	vid, err := docstore.ParseID(videoID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindOne(ctx, constants.CollectionVideos, docstore.Eq("_id", vid)); err != nil {
		return nil, errors.WithMessage(err, "video")
	}

	now := time.Now().UTC()
	comment := &model.Comment{
		ID:        docstore.NewID(),
		Owner:     owner,
		Video:     vid,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentDB.InsertComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, v viewer.Viewer, commentID, content string) (*model.Comment, error) {
	if content == "" {
		return nil, errors.WithMessage(errno.ParamErr, "content is required")
	}
	id, err := docstore.ParseID(commentID)
	if err != nil {
		return nil, err
	}
	comment, err := s.commentDB.FindComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.Is(comment.Owner) {
		return nil, errors.WithMessage(errno.PermissionErr, "only the author can edit this comment")
	}
	now := time.Now().UTC()
	if err := s.commentDB.UpdateComment(ctx, id, docstore.Doc{"content": content, "updatedAt": now}); err != nil {
		return nil, err
	}
	comment.Content = content
	comment.UpdatedAt = now
	return comment, nil
}

// DeleteComment 作者本人或视频所有者可删
func (s *CommentService) DeleteComment(ctx context.Context, v viewer.Viewer, commentID string) error {
	id, err := docstore.ParseID(commentID)
	if err != nil {
		return err
	}
	comment, err := s.commentDB.FindComment(ctx, id)
	if err != nil {
		return err
	}
	if !v.Is(comment.Owner) {
		videoDoc, err := s.store.FindOne(ctx, constants.CollectionVideos, docstore.Eq("_id", comment.Video))
		if err != nil {
			return errors.WithMessage(errno.PermissionErr, "only the author or the video owner can delete this comment")
		}
		ownerID, _ := videoDoc["owner"].(docstore.ID)
		if !v.Is(ownerID) {
			return errors.WithMessage(errno.PermissionErr, "only the author or the video owner can delete this comment")
		}
	}
	return s.commentDB.DeleteComment(ctx, id)
}
