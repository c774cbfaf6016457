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

// GetChannelSubscribers 频道的订阅者列表
// 每个订阅者附自己的订阅者数 以及该频道是否回订了他
func (s *SubscriptionService) GetChannelSubscribers(ctx context.Context, v viewer.Viewer, channelID, page, limit string) (*pipeline.Result, error) {
	channel, err := docstore.ParseID(channelID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindOne(ctx, constants.CollectionUsers, docstore.Eq("_id", channel)); err != nil {
		return nil, errors.WithMessage(err, "channel")
	}

	res, err := pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionSubscriptions,
		Viewer:     v,
		Stages: []pipeline.Stage{
			pipeline.Match(docstore.Eq("channel", channel)),
			pipeline.Join(pipeline.JoinSpec{
				From:         constants.CollectionUsers,
				LocalField:   "subscriber",
				ForeignField: "_id",
				As:           "subscriber",
				Pipeline: []pipeline.Stage{
					// 订阅者自己的订阅者 用于回订判定与计数
					pipeline.Join(pipeline.JoinSpec{
						From:         constants.CollectionSubscriptions,
						LocalField:   "_id",
						ForeignField: "channel",
						As:           "subscribedToSubscriber",
					}),
					// 计数先于布尔覆盖 两个派生依次应用于同一字段
					pipeline.Derive(
						pipeline.Count("subscribersCount", "subscribedToSubscriber"),
						pipeline.Field("subscribedToSubscriber", mutualWith(channel)),
					),
					pipeline.Project(
						"_id", "username", "fullName", "avatar.url",
						"subscribedToSubscriber", "subscribersCount",
					),
				},
				TakeFirst: true,
			}),
			pipeline.SortBy("createdAt", true),
			pipeline.Paginate(pagination.Resolve(page, limit)),
			pipeline.Project("_id", "subscriber", "createdAt"),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "channel subscribers pipeline failed")
	}
	return res, nil
}

// mutualWith 频道是否出现在该订阅者的订阅者之中
func mutualWith(channel docstore.ID) pipeline.DeriveFunc {
	return func(_ viewer.Viewer, d docstore.Doc) any {
		arr, _ := d["subscribedToSubscriber"].([]any)
		for _, e := range arr {
			sub, ok := e.(docstore.Doc)
			if !ok {
				continue
			}
			if docstore.ValuesEqual(sub["subscriber"], channel) {
				return true
			}
		}
		return false
	}
}
