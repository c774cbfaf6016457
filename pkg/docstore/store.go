package docstore

import "context"

// Store 文档存储适配层 上层管道只依赖这一契约
// 所有调用透传ctx 取消即中止
type Store interface {
	Find(ctx context.Context, collection string, filter Predicate) ([]Doc, error)
	// FindOne 未命中返回errno.NotFoundErr
	FindOne(ctx context.Context, collection string, filter Predicate) (Doc, error)
	// Insert 缺省"_id"时由存储补齐 唯一约束冲突返回errno.ConflictErr
	Insert(ctx context.Context, collection string, doc Doc) (ID, error)
	// Update 按字段打补丁 目标不存在返回errno.NotFoundErr
	Update(ctx context.Context, collection string, id ID, patch Doc) error
	Delete(ctx context.Context, collection string, id ID) error
	DeleteMany(ctx context.Context, collection string, filter Predicate) (int64, error)
	Count(ctx context.Context, collection string, filter Predicate) (int64, error)

	// AtomicIncrement 原子自增 不做读改写
	AtomicIncrement(ctx context.Context, collection string, id ID, field string, delta int64) error
	// SetAdd 幂等集合追加 重复加入不产生重复元素
	SetAdd(ctx context.Context, collection string, id ID, field string, value any) error
	Pull(ctx context.Context, collection string, id ID, field string, value any) error
	Push(ctx context.Context, collection string, id ID, field string, value any) error

	// TextSearch 按相关度排序返回命中文档id
	TextSearch(ctx context.Context, collection string, fields []string, query string, limit int64) ([]ID, error)
}
