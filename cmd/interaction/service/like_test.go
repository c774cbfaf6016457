package service

import (
	"context"
	"testing"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
)

// TestToggleVideoLike 切换是自身的逆
func TestToggleVideoLike(t *testing.T) {
	ctx := context.Background()
	m := newInteractionStore()
	owner := seedUser(t, m, "owner")
	fan := seedUser(t, m, "fan")
	vid := seedVideo(t, m, owner, true)
	svc := NewLikeService(m)

	res, err := svc.ToggleVideoLike(ctx, viewer.User(fan), vid.Hex())
	if err != nil {
		t.Fatalf("ToggleVideoLike: %v", err)
	}
	if !res.Liked {
		t.Error("first toggle must like")
	}
	if n, _ := m.Count(ctx, constants.CollectionLikes, docstore.All()); n != 1 {
		t.Errorf("like rows = %d, want 1", n)
	}

	res, err = svc.ToggleVideoLike(ctx, viewer.User(fan), vid.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if res.Liked {
		t.Error("second toggle must unlike")
	}
	if n, _ := m.Count(ctx, constants.CollectionLikes, docstore.All()); n != 0 {
		t.Errorf("like rows = %d, want 0", n)
	}
}

// TestToggleLikeVariants 视频与评论的点赞互不干扰
func TestToggleLikeVariants(t *testing.T) {
	ctx := context.Background()
	m := newInteractionStore()
	owner := seedUser(t, m, "owner")
	fan := seedUser(t, m, "fan")
	vid := seedVideo(t, m, owner, true)
	commentID, err := m.Insert(ctx, constants.CollectionComments, docstore.Doc{
		"owner": owner, "video": vid, "content": "hello", "createdAt": time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}
	svc := NewLikeService(m)

	if _, err := svc.ToggleVideoLike(ctx, viewer.User(fan), vid.Hex()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ToggleCommentLike(ctx, viewer.User(fan), commentID.Hex()); err != nil {
		t.Fatal(err)
	}
	if n, _ := m.Count(ctx, constants.CollectionLikes, docstore.All()); n != 2 {
		t.Errorf("variants must coexist, rows = %d", n)
	}

	// 撤掉评论赞 视频赞保留
	if _, err := svc.ToggleCommentLike(ctx, viewer.User(fan), commentID.Hex()); err != nil {
		t.Fatal(err)
	}
	n, _ := m.Count(ctx, constants.CollectionLikes, docstore.Eq("targetKind", constants.LikeTargetVideo))
	if n != 1 {
		t.Errorf("video like must survive, rows = %d", n)
	}
}

func TestToggleLikeRejections(t *testing.T) {
	ctx := context.Background()
	m := newInteractionStore()
	owner := seedUser(t, m, "owner")
	vid := seedVideo(t, m, owner, true)
	svc := NewLikeService(m)

	if _, err := svc.ToggleVideoLike(ctx, viewer.Anonymous(), vid.Hex()); !errno.Is(err, errno.PermissionErr) {
		t.Errorf("anonymous like should be PermissionErr, got %v", err)
	}
	if _, err := svc.ToggleVideoLike(ctx, viewer.User(owner), docstore.NewID().Hex()); !errno.Is(err, errno.NotFoundErr) {
		t.Errorf("missing target should be NotFoundErr, got %v", err)
	}
	if _, err := svc.ToggleCommentLike(ctx, viewer.User(owner), "nope"); !errno.Is(err, errno.ParamErr) {
		t.Errorf("malformed id should be ParamErr, got %v", err)
	}
}

// TestGetLikedVideos 按点赞时间倒序 不可见视频整条丢弃
func TestGetLikedVideos(t *testing.T) {
	ctx := context.Background()
	m := newInteractionStore()
	owner := seedUser(t, m, "owner")
	fan := seedUser(t, m, "fan")
	visible := seedVideo(t, m, owner, true)
	other := seedVideo(t, m, owner, true)
	draft := seedVideo(t, m, owner, false)

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, target := range []docstore.ID{visible, other, draft} {
		if _, err := m.Insert(ctx, constants.CollectionLikes, docstore.Doc{
			"likedBy": fan, "targetKind": constants.LikeTargetVideo, "targetId": target,
			"createdAt": base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatal(err)
		}
	}
	svc := NewLikeService(m)

	if _, err := svc.GetLikedVideos(ctx, viewer.Anonymous(), "", ""); !errno.Is(err, errno.PermissionErr) {
		t.Errorf("anonymous listing should be PermissionErr, got %v", err)
	}

	res, err := svc.GetLikedVideos(ctx, viewer.User(fan), "", "")
	if err != nil {
		t.Fatalf("GetLikedVideos: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("unpublished targets must be dropped, total = %d", res.Total)
	}
	// 最近点赞的可见视频在前
	first, _ := res.Items[0]["video"].(docstore.Doc)
	if first == nil || !docstore.ValuesEqual(first["_id"], other) {
		t.Errorf("most recent visible like must come first, got %v", res.Items[0])
	}
	if _, ok := first["isPublished"]; ok {
		t.Error("video projection must drop isPublished")
	}
}
