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

type DashboardService struct {
	store docstore.Store
}

func NewDashboardService(store docstore.Store) *DashboardService {
	return &DashboardService{store: store}
}

// ChannelStats 查询期聚合 从不落库
type ChannelStats struct {
	TotalVideos      int64 `json:"total_videos"`
	TotalViews       int64 `json:"total_views"`
	TotalSubscribers int64 `json:"total_subscribers"`
	TotalLikes       int64 `json:"total_likes"`
}

// GetChannelStats 频道总量 含未发布视频 面向频道经营者
func (s *DashboardService) GetChannelStats(ctx context.Context, v viewer.Viewer, channelID string) (*ChannelStats, error) {
	channel, err := docstore.ParseID(channelID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindOne(ctx, constants.CollectionUsers, docstore.Eq("_id", channel)); err != nil {
		return nil, errors.WithMessage(err, "channel")
	}

	res, err := pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionVideos,
		Viewer:     v,
		Stages: []pipeline.Stage{
			pipeline.Match(docstore.Eq("owner", channel)),
			pipeline.Join(pipeline.JoinSpec{
				From:         constants.CollectionLikes,
				LocalField:   "_id",
				ForeignField: "targetId",
				As:           "likes",
				Pipeline: []pipeline.Stage{
					pipeline.Match(docstore.Eq("targetKind", constants.LikeTargetVideo)),
				},
			}),
			pipeline.Derive(pipeline.Count("likesCount", "likes")),
			pipeline.Project("_id", "views", "likesCount"),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "channel stats pipeline failed")
	}

	stats := &ChannelStats{TotalVideos: res.Total}
	for _, d := range res.Items {
		if n, ok := d["views"].(int64); ok {
			stats.TotalViews += n
		}
		if n, ok := d["likesCount"].(int64); ok {
			stats.TotalLikes += n
		}
	}
	subs, err := s.store.Count(ctx, constants.CollectionSubscriptions, docstore.Eq("channel", channel))
	if err != nil {
		return nil, errors.WithMessage(err, "count subscribers failed")
	}
	stats.TotalSubscribers = subs
	return stats, nil
}

// GetChannelVideos 频道视频列表 频道本人可见未发布
func (s *DashboardService) GetChannelVideos(ctx context.Context, v viewer.Viewer, channelID, page, limit string) (*pipeline.Result, error) {
	channel, err := docstore.ParseID(channelID)
	if err != nil {
		return nil, err
	}

	filter := docstore.Eq("owner", channel)
	if !v.Is(channel) {
		filter = docstore.And(filter, docstore.Eq("isPublished", true))
	}
	res, err := pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionVideos,
		Viewer:     v,
		Stages: []pipeline.Stage{
			pipeline.Match(filter),
			pipeline.SortBy("createdAt", true),
			pipeline.Paginate(pagination.Resolve(page, limit)),
			pipeline.Project(
				"_id", "title", "description", "thumbnail.url", "duration",
				"views", "isPublished", "createdAt",
			),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "channel videos pipeline failed")
	}
	return res, nil
}
