package db

import (
	"context"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/model"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/pkg/errors"
)

// LikeDB 点赞集合 (likedBy,targetKind,targetId)唯一
type LikeDB struct {
	store docstore.Store
}

func NewLikeDB(store docstore.Store) *LikeDB {
	return &LikeDB{store: store}
}

func (d *LikeDB) FindLike(ctx context.Context, likedBy docstore.ID, targetKind string, targetID docstore.ID) (*model.Like, error) {
	doc, err := d.store.FindOne(ctx, constants.CollectionLikes, docstore.And(
		docstore.Eq("likedBy", likedBy),
		docstore.Eq("targetKind", targetKind),
		docstore.Eq("targetId", targetID),
	))
	if err != nil {
		return nil, errors.WithMessage(err, "dao.FindLike failed")
	}
	var like model.Like
	if err := docstore.FromDoc(doc, &like); err != nil {
		return nil, errors.WithMessage(err, "dao.FindLike decode failed")
	}
	return &like, nil
}

// InsertLike 并发重复点赞由唯一索引拦截 返回errno.ConflictErr
func (d *LikeDB) InsertLike(ctx context.Context, likedBy docstore.ID, targetKind string, targetID docstore.ID) error {
	doc, err := docstore.ToDoc(&model.Like{
		ID:         docstore.NewID(),
		LikedBy:    likedBy,
		TargetKind: targetKind,
		TargetID:   targetID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return errors.WithMessage(err, "dao.InsertLike encode failed")
	}
	if _, err := d.store.Insert(ctx, constants.CollectionLikes, doc); err != nil {
		return errors.WithMessage(err, "dao.InsertLike failed")
	}
	return nil
}

func (d *LikeDB) DeleteLike(ctx context.Context, id docstore.ID) error {
	if err := d.store.Delete(ctx, constants.CollectionLikes, id); err != nil {
		return errors.WithMessage(err, "dao.DeleteLike failed")
	}
	return nil
}
