package db

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/model"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/pkg/errors"
)

// PlaylistDB 播放列表集合的点查与写入
type PlaylistDB struct {
	store docstore.Store
}

func NewPlaylistDB(store docstore.Store) *PlaylistDB {
	return &PlaylistDB{store: store}
}

func (d *PlaylistDB) FindPlaylist(ctx context.Context, id docstore.ID) (*model.Playlist, error) {
	doc, err := d.store.FindOne(ctx, constants.CollectionPlaylists, docstore.Eq("_id", id))
	if err != nil {
		return nil, errors.WithMessage(err, "dao.FindPlaylist failed")
	}
	var playlist model.Playlist
	if err := docstore.FromDoc(doc, &playlist); err != nil {
		return nil, errors.WithMessage(err, "dao.FindPlaylist decode failed")
	}
	return &playlist, nil
}

func (d *PlaylistDB) InsertPlaylist(ctx context.Context, playlist *model.Playlist) error {
	doc, err := docstore.ToDoc(playlist)
	if err != nil {
		return errors.WithMessage(err, "dao.InsertPlaylist encode failed")
	}
	if _, err := d.store.Insert(ctx, constants.CollectionPlaylists, doc); err != nil {
		return errors.WithMessage(err, "dao.InsertPlaylist failed")
	}
	return nil
}

func (d *PlaylistDB) UpdatePlaylist(ctx context.Context, id docstore.ID, patch docstore.Doc) error {
	if err := d.store.Update(ctx, constants.CollectionPlaylists, id, patch); err != nil {
		return errors.WithMessage(err, "dao.UpdatePlaylist failed")
	}
	return nil
}

func (d *PlaylistDB) DeletePlaylist(ctx context.Context, id docstore.ID) error {
	if err := d.store.Delete(ctx, constants.CollectionPlaylists, id); err != nil {
		return errors.WithMessage(err, "dao.DeletePlaylist failed")
	}
	return nil
}

// AppendVideo 追加到末尾 允许重复引用
func (d *PlaylistDB) AppendVideo(ctx context.Context, id, videoID docstore.ID) error {
	if err := d.store.Push(ctx, constants.CollectionPlaylists, id, "videos", videoID); err != nil {
		return errors.WithMessage(err, "dao.AppendVideo failed")
	}
	return nil
}

// RemoveVideo 移除所有同id的引用
func (d *PlaylistDB) RemoveVideo(ctx context.Context, id, videoID docstore.ID) error {
	if err := d.store.Pull(ctx, constants.CollectionPlaylists, id, "videos", videoID); err != nil {
		return errors.WithMessage(err, "dao.RemoveVideo failed")
	}
	return nil
}
