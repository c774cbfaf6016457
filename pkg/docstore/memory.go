package docstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/pkg/errors"
)

// Memory 与Mongo语义对齐的内存实现 测试与本地联调使用
type Memory struct {
	mu     sync.RWMutex
	colls  map[string][]Doc
	unique map[string][][]string
}

func NewMemory() *Memory {
	return &Memory{
		colls:  make(map[string][]Doc),
		unique: make(map[string][][]string),
	}
}

// RegisterUniqueIndex 登记唯一索引 Insert命中时返回ConflictErr
func (m *Memory) RegisterUniqueIndex(collection string, fields ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unique[collection] = append(m.unique[collection], fields)
}

func (m *Memory) Find(ctx context.Context, collection string, filter Predicate) ([]Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Doc
	for _, d := range m.colls[collection] {
		if filter.Matches(d) {
			out = append(out, copyDoc(d))
		}
	}
	return out, nil
}

func (m *Memory) FindOne(ctx context.Context, collection string, filter Predicate) (Doc, error) {
	docs, err := m.Find(ctx, collection, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.WithMessage(errno.NotFoundErr, collection)
	}
	return docs[0], nil
}

func (m *Memory) Insert(ctx context.Context, collection string, doc Doc) (ID, error) {
	if err := ctx.Err(); err != nil {
		return ID{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := copyDoc(doc)
	if _, ok := stored["_id"]; !ok {
		stored["_id"] = NewID()
	}
	for _, idx := range m.unique[collection] {
		for _, existing := range m.colls[collection] {
			if sameIndexKey(existing, stored, idx) {
				return ID{}, errors.WithMessage(errno.ConflictErr, collection)
			}
		}
	}
	m.colls[collection] = append(m.colls[collection], stored)
	id, _ := stored["_id"].(ID)
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection string, id ID, patch Doc) error {
	return m.mutate(ctx, collection, id, func(d Doc) {
		for k, v := range patch {
			d[k] = Normalize(v)
		}
	})
}

func (m *Memory) Delete(ctx context.Context, collection string, id ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.colls[collection]
	for i, d := range docs {
		if ValuesEqual(d["_id"], id) {
			m.colls[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return errors.WithMessage(errno.NotFoundErr, collection)
}

func (m *Memory) DeleteMany(ctx context.Context, collection string, filter Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []Doc
	var removed int64
	for _, d := range m.colls[collection] {
		if filter.Matches(d) {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	m.colls[collection] = kept
	return removed, nil
}

func (m *Memory) Count(ctx context.Context, collection string, filter Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, d := range m.colls[collection] {
		if filter.Matches(d) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) AtomicIncrement(ctx context.Context, collection string, id ID, field string, delta int64) error {
	return m.mutate(ctx, collection, id, func(d Doc) {
		cur, _ := d[field].(int64)
		d[field] = cur + delta
	})
}

func (m *Memory) SetAdd(ctx context.Context, collection string, id ID, field string, value any) error {
	return m.mutate(ctx, collection, id, func(d Doc) {
		arr, _ := d[field].([]any)
		for _, e := range arr {
			if ValuesEqual(e, value) {
				return
			}
		}
		d[field] = append(arr, Normalize(value))
	})
}

func (m *Memory) Pull(ctx context.Context, collection string, id ID, field string, value any) error {
	return m.mutate(ctx, collection, id, func(d Doc) {
		arr, _ := d[field].([]any)
		kept := make([]any, 0, len(arr))
		for _, e := range arr {
			if ValuesEqual(e, value) {
				continue
			}
			kept = append(kept, e)
		}
		d[field] = kept
	})
}

func (m *Memory) Push(ctx context.Context, collection string, id ID, field string, value any) error {
	return m.mutate(ctx, collection, id, func(d Doc) {
		arr, _ := d[field].([]any)
		d[field] = append(arr, Normalize(value))
	})
}

// TextSearch 朴素词频打分 只为在无外部索引时保持相同契约
func (m *Memory) TextSearch(ctx context.Context, collection string, fields []string, query string, limit int64) ([]ID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	type hit struct {
		id    ID
		score int
		pos   int
	}
	var hits []hit
	for pos, d := range m.colls[collection] {
		score := 0
		for _, f := range fields {
			text, _ := GetPath(d, f).(string)
			text = strings.ToLower(text)
			for _, term := range terms {
				score += strings.Count(text, term)
			}
		}
		if score > 0 {
			id, _ := d["_id"].(ID)
			hits = append(hits, hit{id: id, score: score, pos: pos})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})
	if limit > 0 && int64(len(hits)) > limit {
		hits = hits[:limit]
	}
	ids := make([]ID, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.id)
	}
	return ids, nil
}

func (m *Memory) mutate(ctx context.Context, collection string, id ID, fn func(Doc)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.colls[collection] {
		if ValuesEqual(d["_id"], id) {
			fn(d)
			return nil
		}
	}
	return errors.WithMessage(errno.NotFoundErr, collection)
}

func sameIndexKey(a, b Doc, fields []string) bool {
	for _, f := range fields {
		if !ValuesEqual(GetPath(a, f), GetPath(b, f)) {
			return false
		}
	}
	return true
}

func copyDoc(d Doc) Doc {
	out := make(Doc, len(d))
	for k, v := range d {
		out[k] = copyValue(Normalize(v))
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case Doc:
		return copyDoc(t)
	case []any:
		arr := make([]any, 0, len(t))
		for _, e := range t {
			arr = append(arr, copyValue(e))
		}
		return arr
	default:
		return v
	}
}
