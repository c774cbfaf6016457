package service

import (
	"context"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/model"
	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/playlist/dal/db"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
)

type PlaylistService struct {
	store      docstore.Store
	playlistDB *db.PlaylistDB
}

func NewPlaylistService(store docstore.Store) *PlaylistService {
	return &PlaylistService{store: store, playlistDB: db.NewPlaylistDB(store)}
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, v viewer.Viewer, name, description string) (*model.Playlist, error) {
	owner, ok := v.ID()
	if !ok {
		return nil, errors.WithMessage(errno.PermissionErr, "creating a playlist requires sign in")
	}
	if name == "" {
		return nil, errors.WithMessage(errno.ParamErr, "name is required")
	}
	now := time.Now().UTC()
	playlist := &model.Playlist{
		ID:          docstore.NewID(),
		Owner:       owner,
		Name:        name,
		Description: description,
		Videos:      []docstore.ID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.playlistDB.InsertPlaylist(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) UpdatePlaylist(ctx context.Context, v viewer.Viewer, playlistID, name, description string) (*model.Playlist, error) {
	if name == "" {
		return nil, errors.WithMessage(errno.ParamErr, "name is required")
	}
	playlist, err := s.ownedPlaylist(ctx, v, playlistID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	patch := docstore.Doc{"name": name, "description": description, "updatedAt": now}
	if err := s.playlistDB.UpdatePlaylist(ctx, playlist.ID, patch); err != nil {
		return nil, err
	}
	playlist.Name = name
	playlist.Description = description
	playlist.UpdatedAt = now
	return playlist, nil
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, v viewer.Viewer, playlistID string) error {
	playlist, err := s.ownedPlaylist(ctx, v, playlistID)
	if err != nil {
		return err
	}
	return s.playlistDB.DeletePlaylist(ctx, playlist.ID)
}

// AddVideo 追加到末尾 同一视频可多次加入
func (s *PlaylistService) AddVideo(ctx context.Context, v viewer.Viewer, playlistID, videoID string) error {
	playlist, err := s.ownedPlaylist(ctx, v, playlistID)
	if err != nil {
		return err
	}
	vid, err := docstore.ParseID(videoID)
	if err != nil {
		return err
	}
	if _, err := s.store.FindOne(ctx, constants.CollectionVideos, docstore.Eq("_id", vid)); err != nil {
		return errors.WithMessage(err, "video")
	}
	return s.playlistDB.AppendVideo(ctx, playlist.ID, vid)
}

// RemoveVideo 移除该视频的全部引用 不要求视频仍然存在
func (s *PlaylistService) RemoveVideo(ctx context.Context, v viewer.Viewer, playlistID, videoID string) error {
	playlist, err := s.ownedPlaylist(ctx, v, playlistID)
	if err != nil {
		return err
	}
	vid, err := docstore.ParseID(videoID)
	if err != nil {
		return err
	}
	return s.playlistDB.RemoveVideo(ctx, playlist.ID, vid)
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, v viewer.Viewer, playlistID string) (*model.Playlist, error) {
	id, err := docstore.ParseID(playlistID)
	if err != nil {
		return nil, err
	}
	playlist, err := s.playlistDB.FindPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.Is(playlist.Owner) {
		return nil, errors.WithMessage(errno.PermissionErr, "only the owner can modify this playlist")
	}
	return playlist, nil
}
