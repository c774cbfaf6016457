package docstore

import (
	"context"
	"testing"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
)

// TestPredicateMatching 谓词匹配语义
func TestPredicateMatching(t *testing.T) {
	id := NewID()
	d := Doc{"_id": id, "kind": "video", "views": int64(3)}

	if !All().Matches(d) {
		t.Error("All should match everything")
	}
	if !Eq("kind", "video").Matches(d) {
		t.Error("Eq should match equal value")
	}
	if Eq("kind", "comment").Matches(d) {
		t.Error("Eq should reject different value")
	}
	if !In("views", int64(1), int64(3)).Matches(d) {
		t.Error("In should match any listed value")
	}
	if In("views", int64(2)).Matches(d) {
		t.Error("In should reject missing value")
	}
	if !And(Eq("kind", "video"), Eq("_id", id)).Matches(d) {
		t.Error("And should match when all children match")
	}
	if And(Eq("kind", "video"), Eq("views", int64(9))).Matches(d) {
		t.Error("And should reject when one child rejects")
	}
}

// TestMemoryCRUD 基本读写与NotFound契约
func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.Insert(ctx, "videos", Doc{"title": "first"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id.IsZero() {
		t.Fatal("Insert should assign an id when missing")
	}

	doc, err := m.FindOne(ctx, "videos", Eq("_id", id))
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if doc["title"] != "first" {
		t.Errorf("got title %v", doc["title"])
	}

	// 读出的是副本 改它不影响存储
	doc["title"] = "mutated"
	again, _ := m.FindOne(ctx, "videos", Eq("_id", id))
	if again["title"] != "first" {
		t.Error("reads must return copies")
	}

	if err := m.Update(ctx, "videos", id, Doc{"title": "second"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	doc, _ = m.FindOne(ctx, "videos", Eq("_id", id))
	if doc["title"] != "second" {
		t.Errorf("after update got %v", doc["title"])
	}

	if _, err := m.FindOne(ctx, "videos", Eq("_id", NewID())); !errno.Is(err, errno.NotFoundErr) {
		t.Errorf("FindOne miss should be NotFoundErr, got %v", err)
	}
	if err := m.Update(ctx, "videos", NewID(), Doc{"x": 1}); !errno.Is(err, errno.NotFoundErr) {
		t.Errorf("Update miss should be NotFoundErr, got %v", err)
	}
	if err := m.Delete(ctx, "videos", id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(ctx, "videos", id); !errno.Is(err, errno.NotFoundErr) {
		t.Errorf("double delete should be NotFoundErr, got %v", err)
	}
}

// TestMemoryUniqueIndex 唯一索引冲突返回ConflictErr
func TestMemoryUniqueIndex(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.RegisterUniqueIndex("subscriptions", "subscriber", "channel")

	a, b := NewID(), NewID()
	if _, err := m.Insert(ctx, "subscriptions", Doc{"subscriber": a, "channel": b}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := m.Insert(ctx, "subscriptions", Doc{"subscriber": a, "channel": b}); !errno.Is(err, errno.ConflictErr) {
		t.Errorf("duplicate insert should be ConflictErr, got %v", err)
	}
	// 反向键不是同一条
	if _, err := m.Insert(ctx, "subscriptions", Doc{"subscriber": b, "channel": a}); err != nil {
		t.Errorf("reverse pair should insert: %v", err)
	}
}

// TestMemorySetAddIdempotent 集合追加幂等
func TestMemorySetAddIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	uid, _ := m.Insert(ctx, "users", Doc{"watchHistory": []any{}})
	vid := NewID()

	for i := 0; i < 3; i++ {
		if err := m.SetAdd(ctx, "users", uid, "watchHistory", vid); err != nil {
			t.Fatalf("SetAdd: %v", err)
		}
	}
	doc, _ := m.FindOne(ctx, "users", Eq("_id", uid))
	arr, _ := doc["watchHistory"].([]any)
	if len(arr) != 1 {
		t.Errorf("SetAdd must be idempotent, got %d elements", len(arr))
	}
}

// TestMemoryPushPull Push保留重复 Pull移除全部同值
func TestMemoryPushPull(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	pid, _ := m.Insert(ctx, "playlists", Doc{"videos": []any{}})
	v1, v2 := NewID(), NewID()

	for _, v := range []ID{v1, v2, v1} {
		if err := m.Push(ctx, "playlists", pid, "videos", v); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	doc, _ := m.FindOne(ctx, "playlists", Eq("_id", pid))
	arr, _ := doc["videos"].([]any)
	if len(arr) != 3 {
		t.Fatalf("Push must keep duplicates, got %d", len(arr))
	}
	if !ValuesEqual(arr[0], v1) || !ValuesEqual(arr[1], v2) || !ValuesEqual(arr[2], v1) {
		t.Error("Push must keep insertion order")
	}

	if err := m.Pull(ctx, "playlists", pid, "videos", v1); err != nil {
		t.Fatalf("Pull: %v", err)
	}
	doc, _ = m.FindOne(ctx, "playlists", Eq("_id", pid))
	arr, _ = doc["videos"].([]any)
	if len(arr) != 1 || !ValuesEqual(arr[0], v2) {
		t.Errorf("Pull must remove every occurrence, got %v", arr)
	}
}

// TestMemoryAtomicIncrement 自增从零起步
func TestMemoryAtomicIncrement(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, _ := m.Insert(ctx, "videos", Doc{"title": "v"})

	for i := 0; i < 5; i++ {
		if err := m.AtomicIncrement(ctx, "videos", id, "views", 1); err != nil {
			t.Fatalf("AtomicIncrement: %v", err)
		}
	}
	doc, _ := m.FindOne(ctx, "videos", Eq("_id", id))
	if doc["views"] != int64(5) {
		t.Errorf("views = %v, want 5", doc["views"])
	}
}

// TestMemoryTextSearch 词频降序 平分按插入序
func TestMemoryTextSearch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a, _ := m.Insert(ctx, "videos", Doc{"title": "go tutorial", "description": "learn go from zero, go deep"})
	b, _ := m.Insert(ctx, "videos", Doc{"title": "go basics", "description": "a short intro"})
	_, _ = m.Insert(ctx, "videos", Doc{"title": "cooking", "description": "pasta"})

	ids, err := m.TextSearch(ctx, "videos", []string{"title", "description"}, "go", 10)
	if err != nil {
		t.Fatalf("TextSearch: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d hits, want 2", len(ids))
	}
	if ids[0] != a || ids[1] != b {
		t.Error("hits must be ordered by term frequency")
	}

	ids, _ = m.TextSearch(ctx, "videos", []string{"title"}, "go", 1)
	if len(ids) != 1 {
		t.Errorf("limit must cap hits, got %d", len(ids))
	}
}

// TestMemoryContextCancelled 取消即中止
func TestMemoryContextCancelled(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Find(ctx, "videos", All()); err == nil {
		t.Error("Find with cancelled context should fail")
	}
}
