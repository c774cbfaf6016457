package service

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pagination"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pipeline"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
)

// GetSubscribedChannels 用户订阅的频道列表 每个频道附最新发布的视频
func (s *SubscriptionService) GetSubscribedChannels(ctx context.Context, v viewer.Viewer, subscriberID, page, limit string) (*pipeline.Result, error) {
	subscriber, err := docstore.ParseID(subscriberID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindOne(ctx, constants.CollectionUsers, docstore.Eq("_id", subscriber)); err != nil {
		return nil, errors.WithMessage(err, "subscriber")
	}

	res, err := pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionSubscriptions,
		Viewer:     v,
		Stages: []pipeline.Stage{
			pipeline.Match(docstore.Eq("subscriber", subscriber)),
			pipeline.Join(pipeline.JoinSpec{
				From:         constants.CollectionUsers,
				LocalField:   "channel",
				ForeignField: "_id",
				As:           "channel",
				Pipeline: []pipeline.Stage{
					pipeline.Join(pipeline.JoinSpec{
						From:         constants.CollectionVideos,
						LocalField:   "_id",
						ForeignField: "owner",
						As:           "videos",
						Pipeline: []pipeline.Stage{
							pipeline.Match(docstore.Eq("isPublished", true)),
							pipeline.SortBy("createdAt", false),
						},
					}),
					// 升序排列后末元素即最新发布
					pipeline.Derive(pipeline.Last("latestVideo", "videos")),
					pipeline.Project(
						"_id", "username", "fullName", "avatar.url",
						"latestVideo._id", "latestVideo.title", "latestVideo.thumbnail.url",
						"latestVideo.duration", "latestVideo.views", "latestVideo.createdAt",
					),
				},
				TakeFirst: true,
			}),
			pipeline.SortBy("createdAt", true),
			pipeline.Paginate(pagination.Resolve(page, limit)),
			pipeline.Project("_id", "channel", "createdAt"),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "subscribed channels pipeline failed")
	}
	return res, nil
}
