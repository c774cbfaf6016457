package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/cmd/user/dal/db"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
)

func seedUser(t *testing.T, m *docstore.Memory, username string) docstore.ID {
	t.Helper()
	id := docstore.NewID()
	if _, err := m.Insert(context.Background(), constants.CollectionUsers, docstore.Doc{
		"_id": id, "username": username, "fullName": username,
		"avatar": docstore.Doc{"url": "u"}, "watchHistory": []any{},
	}); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestGetWatchHistory(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	owner := seedUser(t, m, "creator")
	watcher := seedUser(t, m, "watcher")
	userDB := db.NewUserDB(m)

	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	var watched []docstore.ID
	for i := 0; i < 3; i++ {
		id, err := m.Insert(ctx, constants.CollectionVideos, docstore.Doc{
			"owner": owner, "title": fmt.Sprintf("v%d", i), "description": "d",
			"thumbnail": docstore.Doc{"url": "u"}, "duration": float64(5),
			"views": int64(0), "isPublished": i != 1, // v1后来被撤回发布
			"createdAt": base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
		watched = append(watched, id)
		if err := userDB.AppendWatchHistory(ctx, watcher, id); err != nil {
			t.Fatal(err)
		}
	}

	svc := NewWatchHistoryService(m)

	if _, err := svc.GetWatchHistory(ctx, viewer.Anonymous(), "", ""); !errno.Is(err, errno.PermissionErr) {
		t.Errorf("anonymous history should be PermissionErr, got %v", err)
	}

	res, err := svc.GetWatchHistory(ctx, viewer.User(watcher), "", "")
	if err != nil {
		t.Fatalf("GetWatchHistory: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("unpublished entries must be hidden, total = %d", res.Total)
	}
	if !docstore.ValuesEqual(res.Items[0]["_id"], watched[2]) {
		t.Error("most recent upload must come first")
	}
	ownerDoc, _ := res.Items[0]["owner"].(docstore.Doc)
	if ownerDoc == nil || ownerDoc["username"] != "creator" {
		t.Errorf("owner summary = %v", res.Items[0]["owner"])
	}
}

// TestGetWatchHistoryEmpty 空历史直接空窗口
func TestGetWatchHistoryEmpty(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	watcher := seedUser(t, m, "watcher")
	svc := NewWatchHistoryService(m)

	res, err := svc.GetWatchHistory(ctx, viewer.User(watcher), "3", "7")
	if err != nil {
		t.Fatalf("GetWatchHistory: %v", err)
	}
	if res.Total != 0 || len(res.Items) != 0 || res.Page != 3 || res.Limit != 7 {
		t.Errorf("got %+v", res)
	}
}
