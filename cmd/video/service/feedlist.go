package service

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pagination"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pipeline"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/search"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
)

// 检索阶段的候选集上限 再由分页开窗
const searchCandidateLimit = 1000

type FeedListService struct {
	store    docstore.Store
	searcher search.VideoSearcher
}

func NewFeedListService(store docstore.Store, searcher search.VideoSearcher) *FeedListService {
	if searcher == nil {
		// 未接elasticsearch时退回存储文本检索
		searcher = &search.StoreSearcher{
			Store:      store,
			Collection: constants.CollectionVideos,
			Fields:     []string{"title", "description"},
		}
	}
	return &FeedListService{store: store, searcher: searcher}
}

type FeedListRequest struct {
	Query    string
	UserID   string
	SortBy   string
	SortType string
	Page     string
	Limit    string
}

// FeedList 视频流 只含已发布视频 对所有者不做旁路
// 带query时检索阶段先行收窄候选集 无显式排序时保持相关度顺序
func (s *FeedListService) FeedList(ctx context.Context, v viewer.Viewer, req *FeedListRequest) (*pipeline.Result, error) {
	page := pagination.Resolve(req.Page, req.Limit)

	var ranked []docstore.ID
	if req.Query != "" {
		var err error
		ranked, err = s.searcher.SearchVideos(ctx, req.Query, searchCandidateLimit)
		if err != nil {
			return nil, errors.WithMessage(err, "feed search failed")
		}
		if len(ranked) == 0 {
			return pipeline.EmptyWindow(page), nil
		}
	}

	var stages []pipeline.Stage
	if req.UserID != "" {
		ownerID, err := docstore.ParseID(req.UserID)
		if err != nil {
			return nil, err
		}
		stages = append(stages, pipeline.Match(docstore.Eq("owner", ownerID)))
	}
	stages = append(stages, pipeline.Match(docstore.Eq("isPublished", true)))

	sortField, sortDesc, explicit, err := resolveFeedSort(req.SortBy, req.SortType)
	if err != nil {
		return nil, err
	}
	if explicit || req.Query == "" {
		stages = append(stages, pipeline.SortBy(sortField, sortDesc))
	}

	stages = append(stages,
		pipeline.Join(pipeline.JoinSpec{
			From:         constants.CollectionUsers,
			LocalField:   "owner",
			ForeignField: "_id",
			As:           "ownerDetails",
			Pipeline: []pipeline.Stage{
				pipeline.Project("_id", "username", "fullName", "avatar.url"),
			},
			TakeFirst: true,
		}),
		pipeline.Paginate(page),
		pipeline.Project(
			"_id", "title", "description", "duration", "views", "createdAt",
			"videoFile.url", "thumbnail.url", "ownerDetails",
		),
	)

	return pipeline.Execute(ctx, s.store, pipeline.Request{
		Collection: constants.CollectionVideos,
		Viewer:     v,
		Stages:     stages,
		RankedIDs:  ranked,
		RankOrder:  req.Query != "" && !explicit,
	})
}

// resolveFeedSort sortBy限定在createdAt/views/duration
func resolveFeedSort(sortBy, sortType string) (field string, desc, explicit bool, err error) {
	if sortBy == "" {
		return "createdAt", true, false, nil
	}
	switch sortBy {
	case "createdAt", "views", "duration":
	default:
		return "", false, false, errors.WithMessagef(errno.ParamErr, "unsupported sort field %q", sortBy)
	}
	return sortBy, sortType != "asc", true, nil
}
