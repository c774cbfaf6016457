package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pagination"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
	"github.com/pkg/errors"
)

// Request 一次配方执行 观察者随请求显式传入
type Request struct {
	Collection string
	Viewer     viewer.Viewer
	Stages     []Stage
	// RankedIDs 文本检索预先给出的候选集 非空时限定基础集合
	RankedIDs []docstore.ID
	// RankOrder 保持RankedIDs的相关度顺序 直到显式Sort覆盖
	RankOrder bool
}

// Result 列表配方返回窗口与总数 点查配方经First取单文档
type Result struct {
	Items      []docstore.Doc
	Total      int64
	Page       int64
	Limit      int64
	TotalPages int64
	windowed   bool
}

func (r *Result) First() (docstore.Doc, bool) {
	if len(r.Items) == 0 {
		return nil, false
	}
	return r.Items[0], true
}

// Windowed 管道中是否出现过Paginate阶段
func (r *Result) Windowed() bool {
	return r.windowed
}

// EmptyWindow 检索零命中等场景直接返回空窗口 总数为0
func EmptyWindow(p pagination.Page) *Result {
	return &Result{
		Items:    []docstore.Doc{},
		Page:     p.Num,
		Limit:    p.Limit,
		windowed: true,
	}
}

// Execute 按声明顺序求值管道 头部Match合并后下推到存储
func Execute(ctx context.Context, store docstore.Store, req Request) (*Result, error) {
	stages := req.Stages
	var pushdown []docstore.Predicate
	rest := 0
	for ; rest < len(stages); rest++ {
		m, ok := stages[rest].(matchStage)
		if !ok {
			break
		}
		pushdown = append(pushdown, m.filter)
	}
	if len(req.RankedIDs) > 0 {
		vals := make([]any, 0, len(req.RankedIDs))
		for _, id := range req.RankedIDs {
			vals = append(vals, id)
		}
		pushdown = append(pushdown, docstore.In("_id", vals...))
	}

	docs, err := store.Find(ctx, req.Collection, docstore.And(pushdown...))
	if err != nil {
		return nil, errors.WithMessage(err, "pipeline base find")
	}
	if req.RankOrder && len(req.RankedIDs) > 0 {
		docs = rankOrder(docs, req.RankedIDs)
	}

	res := &Result{}
	docs, err = applyStages(ctx, store, docs, stages[rest:], req.Viewer, res)
	if err != nil {
		return nil, err
	}
	res.Items = docs
	if !res.windowed {
		res.Total = int64(len(docs))
	}
	return res, nil
}

func applyStages(ctx context.Context, store docstore.Store, docs []docstore.Doc, stages []Stage, v viewer.Viewer, res *Result) ([]docstore.Doc, error) {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		switch t := s.(type) {
		case matchStage:
			kept := docs[:0:0]
			for _, d := range docs {
				if t.filter.Matches(d) {
					kept = append(kept, d)
				}
			}
			docs = kept
		case joinStage:
			docs, err = applyJoin(ctx, store, docs, t.spec, v)
			if err != nil {
				return nil, err
			}
		case deriveStage:
			for _, d := range docs {
				for _, f := range t.fields {
					d[f.Name] = f.Fn(v, d)
				}
			}
		case sortStage:
			field, desc := t.field, t.desc
			sort.SliceStable(docs, func(i, j int) bool {
				c := docstore.Compare(docstore.GetPath(docs[i], field), docstore.GetPath(docs[j], field))
				if desc {
					return c > 0
				}
				return c < 0
			})
		case paginateStage:
			w := t.page.Window(len(docs))
			res.Total = w.Total
			res.Page = w.Page
			res.Limit = w.Limit
			res.TotalPages = w.TotalPages
			res.windowed = true
			docs = docs[w.Start:w.End]
		case projectStage:
			tree := buildPathTree(t.paths)
			projected := make([]docstore.Doc, 0, len(docs))
			for _, d := range docs {
				projected = append(projected, projectDoc(d, tree))
			}
			docs = projected
		}
	}
	return docs, nil
}

// applyJoin 一次批量外键查询完成整个阶段 绝不按行回表
func applyJoin(ctx context.Context, store docstore.Store, docs []docstore.Doc, spec JoinSpec, v viewer.Viewer) ([]docstore.Doc, error) {
	keys := make([]any, 0, len(docs))
	seen := make(map[string]bool)
	for _, d := range docs {
		for _, lv := range localValues(d, spec.LocalField) {
			k := keyOf(lv)
			if !seen[k] {
				seen[k] = true
				keys = append(keys, lv)
			}
		}
	}

	var joined []docstore.Doc
	if len(keys) > 0 {
		var err error
		joined, err = store.Find(ctx, spec.From, docstore.In(spec.ForeignField, keys...))
		if err != nil {
			return nil, errors.WithMessagef(err, "join %s", spec.From)
		}
		if len(spec.Pipeline) > 0 {
			sub := &Result{}
			joined, err = applyStages(ctx, store, joined, spec.Pipeline, v, sub)
			if err != nil {
				return nil, errors.WithMessagef(err, "join %s sub-pipeline", spec.From)
			}
		}
	}

	buckets := make(map[string][]any)
	for _, jd := range joined {
		k := keyOf(docstore.GetPath(jd, spec.ForeignField))
		buckets[k] = append(buckets[k], jd)
	}

	out := make([]docstore.Doc, 0, len(docs))
	for _, d := range docs {
		var arr []any
		for _, lv := range localValues(d, spec.LocalField) {
			arr = append(arr, buckets[keyOf(lv)]...)
		}
		if spec.TakeFirst {
			if len(arr) == 0 {
				continue
			}
			d[spec.As] = arr[0]
		} else {
			if arr == nil {
				arr = []any{}
			}
			d[spec.As] = arr
		}
		out = append(out, d)
	}
	return out, nil
}

// localValues 数组型本地键逐元素展开 保持声明顺序与重复
func localValues(d docstore.Doc, field string) []any {
	v := docstore.GetPath(d, field)
	if v == nil {
		return nil
	}
	if arr, ok := v.([]any); ok {
		return arr
	}
	return []any{v}
}

func keyOf(v any) string {
	switch t := v.(type) {
	case docstore.ID:
		return "id:" + t.Hex()
	case string:
		return "s:" + t
	default:
		// 连接键只应是标识符或标量
		return "v:" + fmt.Sprintf("%v", t)
	}
}

func rankOrder(docs []docstore.Doc, ids []docstore.ID) []docstore.Doc {
	byID := make(map[string]docstore.Doc, len(docs))
	for _, d := range docs {
		if id, ok := d["_id"].(docstore.ID); ok {
			byID[id.Hex()] = d
		}
	}
	out := make([]docstore.Doc, 0, len(docs))
	for _, id := range ids {
		if d, ok := byID[id.Hex()]; ok {
			out = append(out, d)
		}
	}
	return out
}

// buildPathTree 按首段分组 余下路径在projectDoc中递归展开
func buildPathTree(paths []string) map[string]map[string]bool {
	tree := make(map[string]map[string]bool)
	for _, p := range paths {
		parts := strings.SplitN(p, ".", 2)
		if _, ok := tree[parts[0]]; !ok {
			tree[parts[0]] = nil
		}
		if len(parts) == 2 {
			if tree[parts[0]] == nil {
				tree[parts[0]] = make(map[string]bool)
			}
			tree[parts[0]][parts[1]] = true
		}
	}
	return tree
}

func projectDoc(d docstore.Doc, tree map[string]map[string]bool) docstore.Doc {
	out := make(docstore.Doc, len(tree))
	for field, sub := range tree {
		v, ok := d[field]
		if !ok {
			continue
		}
		if sub == nil {
			out[field] = v
			continue
		}
		subPaths := make([]string, 0, len(sub))
		for p := range sub {
			subPaths = append(subPaths, p)
		}
		out[field] = projectValue(v, buildPathTree(subPaths))
	}
	return out
}

func projectValue(v any, tree map[string]map[string]bool) any {
	switch t := v.(type) {
	case docstore.Doc:
		return projectDoc(t, tree)
	case []any:
		arr := make([]any, 0, len(t))
		for _, e := range t {
			arr = append(arr, projectValue(e, tree))
		}
		return arr
	default:
		return v
	}
}
