package service

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/relation/dal/db"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
)

type SubscriptionService struct {
	store  docstore.Store
	subsDB *db.SubscriptionDB
}

func NewSubscriptionService(store docstore.Store) *SubscriptionService {
	return &SubscriptionService{store: store, subsDB: db.NewSubscriptionDB(store)}
}

// SubscribeResult 切换后的状态
type SubscribeResult struct {
	Subscribed bool `json:"subscribed"`
}

// ToggleSubscription 存在则退订 不存在则订阅 允许订阅自己的频道
// 并发双写触发唯一索引冲突 就地折算为已订阅
func (s *SubscriptionService) ToggleSubscription(ctx context.Context, v viewer.Viewer, channelID string) (*SubscribeResult, error) {
	uid, ok := v.ID()
	if !ok {
		return nil, errors.WithMessage(errno.PermissionErr, "subscribing requires sign in")
	}
	channel, err := docstore.ParseID(channelID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindOne(ctx, constants.CollectionUsers, docstore.Eq("_id", channel)); err != nil {
		return nil, errors.WithMessage(err, "channel")
	}

	sub, err := s.subsDB.FindSubscription(ctx, uid, channel)
	switch {
	case err == nil:
		if err := s.subsDB.DeleteSubscription(ctx, sub.ID); err != nil {
			return nil, err
		}
		return &SubscribeResult{Subscribed: false}, nil
	case errno.Is(err, errno.NotFoundErr):
		if err := s.subsDB.InsertSubscription(ctx, uid, channel); err != nil {
			if errno.Is(err, errno.ConflictErr) {
				return &SubscribeResult{Subscribed: true}, nil
			}
			return nil, err
		}
		return &SubscribeResult{Subscribed: true}, nil
	default:
		return nil, err
	}
}
