package service

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/interaction/dal/db"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pagination"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pipeline"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
)

type LikeService struct {
	store  docstore.Store
	likeDB *db.LikeDB
}

func NewLikeService(store docstore.Store) *LikeService {
	return &LikeService{store: store, likeDB: db.NewLikeDB(store)}
}

// ToggleResult 切换后的状态
type ToggleResult struct {
	Liked bool `json:"liked"`
}

func (s *LikeService) ToggleVideoLike(ctx context.Context, v viewer.Viewer, videoID string) (*ToggleResult, error) {
	return s.toggle(ctx, v, constants.CollectionVideos, constants.LikeTargetVideo, videoID)
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, v viewer.Viewer, commentID string) (*ToggleResult, error) {
	return s.toggle(ctx, v, constants.CollectionComments, constants.LikeTargetComment, commentID)
}

// toggle 存在则撤销 不存在则创建
// 并发双写触发唯一索引冲突 此时对方已写入 就地折算为已赞
func (s *LikeService) toggle(ctx context.Context, v viewer.Viewer, targetColl, targetKind, rawID string) (*ToggleResult, error) {
	uid, ok := v.ID()
	if !ok {
		return nil, errors.WithMessage(errno.PermissionErr, "liking requires sign in")
	}
	id, err := docstore.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindOne(ctx, targetColl, docstore.Eq("_id", id)); err != nil {
		return nil, errors.WithMessage(err, targetKind)
	}

	like, err := s.likeDB.FindLike(ctx, uid, targetKind, id)
	switch {
	case err == nil:
		if err := s.likeDB.DeleteLike(ctx, like.ID); err != nil {
			return nil, err
		}
		return &ToggleResult{Liked: false}, nil
	case errno.Is(err, errno.NotFoundErr):
		if err := s.likeDB.InsertLike(ctx, uid, targetKind, id); err != nil {
			if errno.Is(err, errno.ConflictErr) {
				return &ToggleResult{Liked: true}, nil
			}
			return nil, err
		}
		return &ToggleResult{Liked: true}, nil
	default:
		return nil, err
	}
}

// GetLikedVideos 观察者赞过的视频 按点赞时间倒序
// 已被撤回发布或删除的视频整条丢弃 不计入总数
func (s *LikeService) GetLikedVideos(ctx context.Context, v viewer.Viewer, page, limit string) (*pipeline.Result, error) {
	uid, ok := v.ID()
	if !ok {
		return nil, errors.WithMessage(errno.PermissionErr, "liked videos require sign in")
	}

	res, err := pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionLikes,
		Viewer:     v,
		Stages: []pipeline.Stage{
			pipeline.Match(docstore.And(
				docstore.Eq("likedBy", uid),
				docstore.Eq("targetKind", constants.LikeTargetVideo),
			)),
			pipeline.Join(pipeline.JoinSpec{
				From:         constants.CollectionVideos,
				LocalField:   "targetId",
				ForeignField: "_id",
				As:           "video",
				Pipeline: []pipeline.Stage{
					pipeline.Match(docstore.Eq("isPublished", true)),
					pipeline.Join(pipeline.JoinSpec{
						From:         constants.CollectionUsers,
						LocalField:   "owner",
						ForeignField: "_id",
						As:           "owner",
						TakeFirst:    true,
						Pipeline: []pipeline.Stage{
							pipeline.Project("_id", "username", "fullName", "avatar.url"),
						},
					}),
					pipeline.Project(
						"_id", "title", "description", "thumbnail.url", "duration",
						"views", "createdAt", "owner",
					),
				},
				// 目标视频已不可见时连带丢弃这条点赞
				TakeFirst: true,
			}),
			pipeline.SortBy("createdAt", true),
			pipeline.Paginate(pagination.Resolve(page, limit)),
			pipeline.Project("_id", "createdAt", "video"),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "liked videos pipeline failed")
	}
	return res, nil
}
