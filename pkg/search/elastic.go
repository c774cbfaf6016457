// Package search 视频全文检索 标题+描述按相关度排序
package search

import (
	"context"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	elastic "github.com/olivere/elastic/v7"
	"github.com/pkg/errors"
)

// VideoSearcher feed配方的检索阶段 返回按相关度排好序的视频id
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, limit int64) ([]docstore.ID, error)
}

// ElasticSearcher 基于elasticsearch的实现 索引与存储同步由外部保证
type ElasticSearcher struct {
	client *elastic.Client
	index  string
}

func NewElasticSearcher(addr, index string) (*ElasticSearcher, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(addr),
		elastic.SetSniff(false),
	)
	if err != nil {
		return nil, errors.WithMessage(err, "elastic client init failed")
	}
	return &ElasticSearcher{client: client, index: index}, nil
}

func (s *ElasticSearcher) SearchVideos(ctx context.Context, query string, limit int64) ([]docstore.ID, error) {
	q := elastic.NewMultiMatchQuery(query, "title", "description")
	res, err := s.client.Search().
		Index(s.index).
		Query(q).
		Size(int(limit)).
		Do(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "elastic search failed")
	}
	ids := make([]docstore.ID, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		id, err := docstore.ParseID(hit.Id)
		if err != nil {
			continue // 索引中的脏文档不阻断检索
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// StoreSearcher 未配置elasticsearch时退回存储适配层的文本检索
type StoreSearcher struct {
	Store      docstore.Store
	Collection string
	Fields     []string
}

func (s *StoreSearcher) SearchVideos(ctx context.Context, query string, limit int64) ([]docstore.ID, error) {
	return s.Store.TextSearch(ctx, s.Collection, s.Fields, query, limit)
}
