package db

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/model"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/pkg/errors"
)

// VideoDB 视频集合的点查与写入
type VideoDB struct {
	store docstore.Store
}

func NewVideoDB(store docstore.Store) *VideoDB {
	return &VideoDB{store: store}
}

func (d *VideoDB) FindVideo(ctx context.Context, id docstore.ID) (*model.Video, error) {
	doc, err := d.store.FindOne(ctx, constants.CollectionVideos, docstore.Eq("_id", id))
	if err != nil {
		return nil, errors.WithMessage(err, "dao.FindVideo failed")
	}
	var video model.Video
	if err := docstore.FromDoc(doc, &video); err != nil {
		return nil, errors.WithMessage(err, "dao.FindVideo decode failed")
	}
	return &video, nil
}

func (d *VideoDB) InsertVideo(ctx context.Context, video *model.Video) error {
	doc, err := docstore.ToDoc(video)
	if err != nil {
		return errors.WithMessage(err, "dao.InsertVideo encode failed")
	}
	if _, err := d.store.Insert(ctx, constants.CollectionVideos, doc); err != nil {
		return errors.WithMessage(err, "dao.InsertVideo failed")
	}
	return nil
}

func (d *VideoDB) UpdateVideo(ctx context.Context, id docstore.ID, patch docstore.Doc) error {
	if err := d.store.Update(ctx, constants.CollectionVideos, id, patch); err != nil {
		return errors.WithMessage(err, "dao.UpdateVideo failed")
	}
	return nil
}

func (d *VideoDB) DeleteVideo(ctx context.Context, id docstore.ID) error {
	if err := d.store.Delete(ctx, constants.CollectionVideos, id); err != nil {
		return errors.WithMessage(err, "dao.DeleteVideo failed")
	}
	return nil
}

func (d *VideoDB) IncrementViews(ctx context.Context, id docstore.ID, delta int64) error {
	return d.store.AtomicIncrement(ctx, constants.CollectionVideos, id, "views", delta)
}
