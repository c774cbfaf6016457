package db

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/model"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/pkg/errors"
)

// CommentDB 评论集合的点查与写入
type CommentDB struct {
	store docstore.Store
}

func NewCommentDB(store docstore.Store) *CommentDB {
	return &CommentDB{store: store}
}

func (d *CommentDB) FindComment(ctx context.Context, id docstore.ID) (*model.Comment, error) {
	doc, err := d.store.FindOne(ctx, constants.CollectionComments, docstore.Eq("_id", id))
	if err != nil {
		return nil, errors.WithMessage(err, "dao.FindComment failed")
	}
	var comment model.Comment
	if err := docstore.FromDoc(doc, &comment); err != nil {
		return nil, errors.WithMessage(err, "dao.FindComment decode failed")
	}
	return &comment, nil
}

func (d *CommentDB) InsertComment(ctx context.Context, comment *model.Comment) error {
	doc, err := docstore.ToDoc(comment)
	if err != nil {
		return errors.WithMessage(err, "dao.InsertComment encode failed")
	}
	if _, err := d.store.Insert(ctx, constants.CollectionComments, doc); err != nil {
		return errors.WithMessage(err, "dao.InsertComment failed")
	}
	return nil
}

func (d *CommentDB) UpdateComment(ctx context.Context, id docstore.ID, patch docstore.Doc) error {
	if err := d.store.Update(ctx, constants.CollectionComments, id, patch); err != nil {
		return errors.WithMessage(err, "dao.UpdateComment failed")
	}
	return nil
}

// DeleteComment 评论与其点赞一并删除
func (d *CommentDB) DeleteComment(ctx context.Context, id docstore.ID) error {
	if err := d.store.Delete(ctx, constants.CollectionComments, id); err != nil {
		return errors.WithMessage(err, "dao.DeleteComment failed")
	}
	if _, err := d.store.DeleteMany(ctx, constants.CollectionLikes, docstore.And(
		docstore.Eq("targetKind", constants.LikeTargetComment),
		docstore.Eq("targetId", id),
	)); err != nil {
		return errors.WithMessage(err, "dao.DeleteComment delete likes failed")
	}
	return nil
}
