package service

import (
	"context"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pipeline"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ViewPublisher 视图/观看历史事件出口 通常由pkg/mq的Producer承担
type ViewPublisher interface {
	PublishView(ctx context.Context, videoID string) error
	PublishWatch(ctx context.Context, userID, videoID string) error
}

type VideoDetailService struct {
	store     docstore.Store
	publisher ViewPublisher
	// dispatch 将副作用移出读链路 测试中可替换为同步执行
	dispatch func(func())
}

// NewVideoDetailService publisher可为nil 此时副作用直写存储
func NewVideoDetailService(store docstore.Store, publisher ViewPublisher) *VideoDetailService {
	return &VideoDetailService{
		store:     store,
		publisher: publisher,
		dispatch:  func(f func()) { go f() },
	}
}

// GetVideoByID 视频详情 含观察者相关派生字段
// 成功读取后触发views自增与观看历史追加 失败只降级 不影响响应
// 返回的views是本次自增之前的值
func (s *VideoDetailService) GetVideoByID(ctx context.Context, v viewer.Viewer, videoID string) (docstore.Doc, error) {
	id, err := docstore.ParseID(videoID)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionVideos,
		Viewer:     v,
		Stages: []pipeline.Stage{
			pipeline.Match(docstore.Eq("_id", id)),
			pipeline.Join(pipeline.JoinSpec{
				From:         constants.CollectionLikes,
				LocalField:   "_id",
				ForeignField: "targetId",
				As:           "likes",
				Pipeline: []pipeline.Stage{
					// 多态目标在连接时选定变体分支
					pipeline.Match(docstore.Eq("targetKind", constants.LikeTargetVideo)),
				},
			}),
			pipeline.Join(pipeline.JoinSpec{
				From:         constants.CollectionUsers,
				LocalField:   "owner",
				ForeignField: "_id",
				As:           "owner",
				Pipeline: []pipeline.Stage{
					pipeline.Join(pipeline.JoinSpec{
						From:         constants.CollectionSubscriptions,
						LocalField:   "_id",
						ForeignField: "channel",
						As:           "subscribers",
					}),
					pipeline.Derive(
						pipeline.Count("subscribersCount", "subscribers"),
						pipeline.ContainsViewer("isSubscribed", "subscribers", "subscriber"),
					),
					pipeline.Project("_id", "username", "fullName", "avatar.url", "subscribersCount", "isSubscribed"),
				},
			}),
			pipeline.Derive(
				pipeline.Count("likesCount", "likes"),
				pipeline.ContainsViewer("isLiked", "likes", "likedBy"),
				pipeline.First("owner", "owner"),
			),
			pipeline.Project(
				"_id", "title", "description", "views", "createdAt", "duration",
				"videoFile.url", "owner", "likesCount", "isLiked",
			),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "video detail pipeline failed")
	}
	doc, ok := res.First()
	if !ok {
		return nil, errors.WithMessage(errno.NotFoundErr, "video")
	}

	s.dispatch(func() { s.recordView(id, v) })
	return doc, nil
}

// recordView 读链路之外执行 与响应解耦 失败记Warn作为降级写观测
func (s *VideoDetailService) recordView(id docstore.ID, v viewer.Viewer) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.publisher != nil {
		if err := s.publisher.PublishView(ctx, id.Hex()); err != nil {
			logrus.Warnf("degraded write: publish view event for %s: %v", id.Hex(), err)
		}
		if uid, ok := v.ID(); ok {
			if err := s.publisher.PublishWatch(ctx, uid.Hex(), id.Hex()); err != nil {
				logrus.Warnf("degraded write: publish watch event for %s: %v", uid.Hex(), err)
			}
		}
		return
	}

	if err := s.store.AtomicIncrement(ctx, constants.CollectionVideos, id, "views", 1); err != nil {
		logrus.Warnf("degraded write: increment views for %s: %v", id.Hex(), err)
	}
	if uid, ok := v.ID(); ok {
		if err := s.store.SetAdd(ctx, constants.CollectionUsers, uid, "watchHistory", id); err != nil {
			logrus.Warnf("degraded write: append watch history for %s: %v", uid.Hex(), err)
		}
	}
}
