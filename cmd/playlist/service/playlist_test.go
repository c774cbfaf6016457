package service

import (
	"context"
	"fmt"
	"testing"
	"time"

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
		"avatar": docstore.Doc{"url": "http://img/" + username + ".png"},
	}); err != nil {
		t.Fatal(err)
	}
	return id
}

func seedVideo(t *testing.T, m *docstore.Memory, owner docstore.ID, views int64, published bool) docstore.ID {
	t.Helper()
	id, err := m.Insert(context.Background(), constants.CollectionVideos, docstore.Doc{
		"owner": owner, "title": fmt.Sprintf("clip-%d", views), "description": "d",
		"thumbnail": docstore.Doc{"url": fmt.Sprintf("http://img/%d.png", views)},
		"duration":  float64(9), "views": views, "isPublished": published,
		"createdAt": time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestPlaylistLifecycle(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	owner := seedUser(t, m, "owner")
	stranger := seedUser(t, m, "stranger")
	svc := NewPlaylistService(m)

	if _, err := svc.CreatePlaylist(ctx, viewer.Anonymous(), "mix", ""); !errno.Is(err, errno.PermissionErr) {
		t.Errorf("anonymous create should be PermissionErr, got %v", err)
	}
	if _, err := svc.CreatePlaylist(ctx, viewer.User(owner), "", ""); !errno.Is(err, errno.ParamErr) {
		t.Errorf("empty name should be ParamErr, got %v", err)
	}

	pl, err := svc.CreatePlaylist(ctx, viewer.User(owner), "mix", "weekend watching")
	if err != nil {
		t.Fatalf("CreatePlaylist: %v", err)
	}

	if _, err := svc.UpdatePlaylist(ctx, viewer.User(stranger), pl.ID.Hex(), "stolen", ""); !errno.Is(err, errno.PermissionErr) {
		t.Errorf("stranger update should be PermissionErr, got %v", err)
	}
	updated, err := svc.UpdatePlaylist(ctx, viewer.User(owner), pl.ID.Hex(), "mix v2", "same")
	if err != nil {
		t.Fatalf("UpdatePlaylist: %v", err)
	}
	if updated.Name != "mix v2" {
		t.Errorf("name = %q", updated.Name)
	}

	if err := svc.DeletePlaylist(ctx, viewer.User(stranger), pl.ID.Hex()); !errno.Is(err, errno.PermissionErr) {
		t.Errorf("stranger delete should be PermissionErr, got %v", err)
	}
	if err := svc.DeletePlaylist(ctx, viewer.User(owner), pl.ID.Hex()); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}
	if err := svc.DeletePlaylist(ctx, viewer.User(owner), pl.ID.Hex()); !errno.Is(err, errno.NotFoundErr) {
		t.Errorf("double delete should be NotFoundErr, got %v", err)
	}
}

// TestPlaylistMembers 追加允许重复 移除清掉全部引用
func TestPlaylistMembers(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	owner := seedUser(t, m, "owner")
	v1 := seedVideo(t, m, owner, 10, true)
	v2 := seedVideo(t, m, owner, 20, true)
	svc := NewPlaylistService(m)

	pl, err := svc.CreatePlaylist(ctx, viewer.User(owner), "mix", "")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.AddVideo(ctx, viewer.User(owner), pl.ID.Hex(), docstore.NewID().Hex()); !errno.Is(err, errno.NotFoundErr) {
		t.Errorf("missing video should be NotFoundErr, got %v", err)
	}
	for _, v := range []docstore.ID{v1, v2, v1} {
		if err := svc.AddVideo(ctx, viewer.User(owner), pl.ID.Hex(), v.Hex()); err != nil {
			t.Fatalf("AddVideo: %v", err)
		}
	}
	stored, _ := m.FindOne(ctx, constants.CollectionPlaylists, docstore.Eq("_id", pl.ID))
	members, _ := stored["videos"].([]any)
	if len(members) != 3 {
		t.Fatalf("duplicates must be kept, got %d members", len(members))
	}

	if err := svc.RemoveVideo(ctx, viewer.User(owner), pl.ID.Hex(), v1.Hex()); err != nil {
		t.Fatalf("RemoveVideo: %v", err)
	}
	stored, _ = m.FindOne(ctx, constants.CollectionPlaylists, docstore.Eq("_id", pl.ID))
	members, _ = stored["videos"].([]any)
	if len(members) != 1 || !docstore.ValuesEqual(members[0], v2) {
		t.Errorf("remove must clear every occurrence, got %v", members)
	}
}

// TestGetPlaylistByID 成员与聚合量只算已发布 顺序与重复保持
func TestGetPlaylistByID(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	owner := seedUser(t, m, "owner")
	v1 := seedVideo(t, m, owner, 10, true)
	v2 := seedVideo(t, m, owner, 20, true)
	draft := seedVideo(t, m, owner, 999, false)
	svc := NewPlaylistService(m)

	pl, err := svc.CreatePlaylist(ctx, viewer.User(owner), "mix", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []docstore.ID{v2, draft, v1, v2} {
		if err := svc.AddVideo(ctx, viewer.User(owner), pl.ID.Hex(), v.Hex()); err != nil {
			t.Fatal(err)
		}
	}

	doc, err := svc.GetPlaylistByID(ctx, viewer.Anonymous(), pl.ID.Hex())
	if err != nil {
		t.Fatalf("GetPlaylistByID: %v", err)
	}
	if doc["totalVideos"] != int64(3) {
		t.Errorf("totalVideos = %v, want 3 (draft excluded, duplicate counted)", doc["totalVideos"])
	}
	if doc["totalViews"] != int64(50) {
		t.Errorf("totalViews = %v, want 50", doc["totalViews"])
	}
	members, _ := doc["videos"].([]any)
	if len(members) != 3 {
		t.Fatalf("members = %d, want 3", len(members))
	}
	first, _ := members[0].(docstore.Doc)
	if !docstore.ValuesEqual(first["_id"], v2) {
		t.Error("members must keep playlist order")
	}
	ownerDoc, _ := first["owner"].(docstore.Doc)
	if ownerDoc == nil || ownerDoc["username"] != "owner" {
		t.Errorf("member owner summary = %v", first["owner"])
	}

	if _, err := svc.GetPlaylistByID(ctx, viewer.Anonymous(), docstore.NewID().Hex()); !errno.Is(err, errno.NotFoundErr) {
		t.Errorf("missing playlist should be NotFoundErr, got %v", err)
	}
}

// TestGetUserPlaylists 列表与详情同一聚合口径
func TestGetUserPlaylists(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	owner := seedUser(t, m, "owner")
	v1 := seedVideo(t, m, owner, 10, true)
	draft := seedVideo(t, m, owner, 999, false)
	svc := NewPlaylistService(m)

	pl, err := svc.CreatePlaylist(ctx, viewer.User(owner), "mix", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []docstore.ID{v1, draft} {
		if err := svc.AddVideo(ctx, viewer.User(owner), pl.ID.Hex(), v.Hex()); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.CreatePlaylist(ctx, viewer.User(owner), "empty", ""); err != nil {
		t.Fatal(err)
	}

	res, err := svc.GetUserPlaylists(ctx, viewer.Anonymous(), owner.Hex(), "", "")
	if err != nil {
		t.Fatalf("GetUserPlaylists: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("total = %d, want 2", res.Total)
	}
	for _, d := range res.Items {
		switch d["name"] {
		case "mix":
			if d["totalVideos"] != int64(1) || d["totalViews"] != int64(10) {
				t.Errorf("mix aggregates = %v/%v, want 1/10", d["totalVideos"], d["totalViews"])
			}
			if d["cover"] != "http://img/10.png" {
				t.Errorf("cover = %v", d["cover"])
			}
		case "empty":
			if d["totalVideos"] != int64(0) || d["cover"] != nil {
				t.Errorf("empty playlist aggregates = %v cover=%v", d["totalVideos"], d["cover"])
			}
		}
	}

	if _, err := svc.GetUserPlaylists(ctx, viewer.Anonymous(), docstore.NewID().Hex(), "", ""); !errno.Is(err, errno.NotFoundErr) {
		t.Errorf("missing user should be NotFoundErr, got %v", err)
	}
}
