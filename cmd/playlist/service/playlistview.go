package service

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pagination"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pipeline"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
)

// memberVideos 列表成员连接 只保留已发布视频 维持列表内顺序与重复
func memberVideos(sub ...pipeline.Stage) pipeline.Stage {
	stages := append([]pipeline.Stage{
		pipeline.Match(docstore.Eq("isPublished", true)),
	}, sub...)
	return pipeline.Join(pipeline.JoinSpec{
		From:         constants.CollectionVideos,
		LocalField:   "videos",
		ForeignField: "_id",
		As:           "videos",
		Pipeline:     stages,
	})
}

// GetPlaylistByID 播放列表详情 成员视频与聚合量一律只算已发布
func (s *PlaylistService) GetPlaylistByID(ctx context.Context, v viewer.Viewer, playlistID string) (docstore.Doc, error) {
	id, err := docstore.ParseID(playlistID)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionPlaylists,
		Viewer:     v,
		Stages: []pipeline.Stage{
			pipeline.Match(docstore.Eq("_id", id)),
			memberVideos(
				pipeline.Join(pipeline.JoinSpec{
					From:         constants.CollectionUsers,
					LocalField:   "owner",
					ForeignField: "_id",
					As:           "owner",
					TakeFirst:    true,
					Pipeline: []pipeline.Stage{
						pipeline.Project("_id", "username", "fullName", "avatar.url"),
					},
				}),
				pipeline.Project(
					"_id", "title", "description", "thumbnail.url", "duration",
					"views", "createdAt", "owner",
				),
			),
			pipeline.Join(pipeline.JoinSpec{
				From:         constants.CollectionUsers,
				LocalField:   "owner",
				ForeignField: "_id",
				As:           "owner",
				TakeFirst:    true,
				Pipeline: []pipeline.Stage{
					pipeline.Project("_id", "username", "fullName", "avatar.url"),
				},
			}),
			pipeline.Derive(
				pipeline.Count("totalVideos", "videos"),
				pipeline.Sum("totalViews", "videos", "views"),
			),
			pipeline.Project(
				"_id", "name", "description", "createdAt", "updatedAt",
				"owner", "videos", "totalVideos", "totalViews",
			),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "playlist detail pipeline failed")
	}
	doc, ok := res.First()
	if !ok {
		return nil, errors.WithMessage(errno.NotFoundErr, "playlist")
	}
	return doc, nil
}

// GetUserPlaylists 用户的播放列表 聚合量与详情同一口径
func (s *PlaylistService) GetUserPlaylists(ctx context.Context, v viewer.Viewer, userID, page, limit string) (*pipeline.Result, error) {
	owner, err := docstore.ParseID(userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindOne(ctx, constants.CollectionUsers, docstore.Eq("_id", owner)); err != nil {
		return nil, errors.WithMessage(err, "user")
	}

	res, err := pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionPlaylists,
		Viewer:     v,
		Stages: []pipeline.Stage{
			pipeline.Match(docstore.Eq("owner", owner)),
			memberVideos(
				pipeline.Project("_id", "thumbnail.url", "views"),
			),
			pipeline.Derive(
				pipeline.Count("totalVideos", "videos"),
				pipeline.Sum("totalViews", "videos", "views"),
				// 封面取首个可见成员的缩略图
				pipeline.Field("cover", func(_ viewer.Viewer, d docstore.Doc) any {
					arr, _ := d["videos"].([]any)
					if len(arr) == 0 {
						return nil
					}
					first, _ := arr[0].(docstore.Doc)
					return docstore.GetPath(first, "thumbnail.url")
				}),
			),
			pipeline.SortBy("updatedAt", true),
			pipeline.Paginate(pagination.Resolve(page, limit)),
			pipeline.Project(
				"_id", "name", "description", "updatedAt",
				"cover", "totalVideos", "totalViews",
			),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "user playlists pipeline failed")
	}
	return res, nil
}
