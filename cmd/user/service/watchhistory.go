package service

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/user/dal/db"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pagination"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pipeline"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
)

type WatchHistoryService struct {
	store  docstore.Store
	userDB *db.UserDB
}

func NewWatchHistoryService(store docstore.Store) *WatchHistoryService {
	return &WatchHistoryService{store: store, userDB: db.NewUserDB(store)}
}

// GetWatchHistory 观察者的观看历史 只回放仍可见的视频
// 历史id本身不按观看时间排序 以最近发布在前呈现
func (s *WatchHistoryService) GetWatchHistory(ctx context.Context, v viewer.Viewer, page, limit string) (*pipeline.Result, error) {
	uid, ok := v.ID()
	if !ok {
		return nil, errors.WithMessage(errno.PermissionErr, "watch history requires sign in")
	}
	user, err := s.userDB.FindUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	p := pagination.Resolve(page, limit)
	if len(user.WatchHistory) == 0 {
		return pipeline.EmptyWindow(p), nil
	}

	ids := make([]any, 0, len(user.WatchHistory))
	for _, id := range user.WatchHistory {
		ids = append(ids, id)
	}
	res, err := pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionVideos,
		Viewer:     v,
		Stages: []pipeline.Stage{
			pipeline.Match(docstore.And(
				docstore.In("_id", ids...),
				docstore.Eq("isPublished", true),
			)),
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
			pipeline.SortBy("createdAt", true),
			pipeline.Paginate(p),
			pipeline.Project(
				"_id", "title", "description", "thumbnail.url", "duration",
				"views", "createdAt", "owner",
			),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "watch history pipeline failed")
	}
	return res, nil
}
