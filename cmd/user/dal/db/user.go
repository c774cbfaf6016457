package db

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/model"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/pkg/errors"
)

// UserDB 用户集合的点查与观看历史写入
type UserDB struct {
	store docstore.Store
}

func NewUserDB(store docstore.Store) *UserDB {
	return &UserDB{store: store}
}

func (d *UserDB) FindUser(ctx context.Context, id docstore.ID) (*model.User, error) {
	doc, err := d.store.FindOne(ctx, constants.CollectionUsers, docstore.Eq("_id", id))
	if err != nil {
		return nil, errors.WithMessage(err, "dao.FindUser failed")
	}
	var user model.User
	if err := docstore.FromDoc(doc, &user); err != nil {
		return nil, errors.WithMessage(err, "dao.FindUser decode failed")
	}
	return &user, nil
}

// AppendWatchHistory 幂等 重复观看不产生重复记录
func (d *UserDB) AppendWatchHistory(ctx context.Context, userID, videoID docstore.ID) error {
	if err := d.store.SetAdd(ctx, constants.CollectionUsers, userID, "watchHistory", videoID); err != nil {
		return errors.WithMessage(err, "dao.AppendWatchHistory failed")
	}
	return nil
}
