package db

import (
	"context"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/model"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/pkg/errors"
)

// SubscriptionDB 订阅集合 (subscriber,channel)唯一
type SubscriptionDB struct {
	store docstore.Store
}

func NewSubscriptionDB(store docstore.Store) *SubscriptionDB {
	return &SubscriptionDB{store: store}
}

func (d *SubscriptionDB) FindSubscription(ctx context.Context, subscriber, channel docstore.ID) (*model.Subscription, error) {
	doc, err := d.store.FindOne(ctx, constants.CollectionSubscriptions, docstore.And(
		docstore.Eq("subscriber", subscriber),
		docstore.Eq("channel", channel),
	))
	if err != nil {
		return nil, errors.WithMessage(err, "dao.FindSubscription failed")
	}
	var sub model.Subscription
	if err := docstore.FromDoc(doc, &sub); err != nil {
		return nil, errors.WithMessage(err, "dao.FindSubscription decode failed")
	}
	return &sub, nil
}

// InsertSubscription 并发重复订阅由唯一索引拦截 返回errno.ConflictErr
func (d *SubscriptionDB) InsertSubscription(ctx context.Context, subscriber, channel docstore.ID) error {
	doc, err := docstore.ToDoc(&model.Subscription{
		ID:         docstore.NewID(),
		Subscriber: subscriber,
		Channel:    channel,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return errors.WithMessage(err, "dao.InsertSubscription encode failed")
	}
	if _, err := d.store.Insert(ctx, constants.CollectionSubscriptions, doc); err != nil {
		return errors.WithMessage(err, "dao.InsertSubscription failed")
	}
	return nil
}

func (d *SubscriptionDB) DeleteSubscription(ctx context.Context, id docstore.ID) error {
	if err := d.store.Delete(ctx, constants.CollectionSubscriptions, id); err != nil {
		return errors.WithMessage(err, "dao.DeleteSubscription failed")
	}
	return nil
}
