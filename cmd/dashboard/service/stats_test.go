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

// dashFixture 频道有2条发布1条草稿 合计views与点赞 2个订阅者
func dashFixture(t *testing.T) (*docstore.Memory, docstore.ID) {
	t.Helper()
	ctx := context.Background()
	m := docstore.NewMemory()
	channel := docstore.NewID()
	if _, err := m.Insert(ctx, constants.CollectionUsers, docstore.Doc{
		"_id": channel, "username": "channel", "fullName": "Channel",
		"avatar": docstore.Doc{"url": "u"},
	}); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		vid, err := m.Insert(ctx, constants.CollectionVideos, docstore.Doc{
			"owner": channel, "title": fmt.Sprintf("v%d", i), "description": "d",
			"thumbnail": docstore.Doc{"url": "u"}, "duration": float64(5),
			"views": int64((i + 1) * 100), "isPublished": i < 2,
			"createdAt": base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
		for j := 0; j <= i; j++ {
			if _, err := m.Insert(ctx, constants.CollectionLikes, docstore.Doc{
				"likedBy": docstore.NewID(), "targetKind": constants.LikeTargetVideo, "targetId": vid,
			}); err != nil {
				t.Fatal(err)
			}
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := m.Insert(ctx, constants.CollectionSubscriptions, docstore.Doc{
			"subscriber": docstore.NewID(), "channel": channel,
		}); err != nil {
			t.Fatal(err)
		}
	}
	return m, channel
}

func TestGetChannelStats(t *testing.T) {
	ctx := context.Background()
	m, channel := dashFixture(t)
	svc := NewDashboardService(m)

	stats, err := svc.GetChannelStats(ctx, viewer.User(channel), channel.Hex())
	if err != nil {
		t.Fatalf("GetChannelStats: %v", err)
	}
	// 草稿也计入经营面板
	if stats.TotalVideos != 3 {
		t.Errorf("TotalVideos = %d, want 3", stats.TotalVideos)
	}
	if stats.TotalViews != 600 {
		t.Errorf("TotalViews = %d, want 600", stats.TotalViews)
	}
	if stats.TotalLikes != 6 {
		t.Errorf("TotalLikes = %d, want 6", stats.TotalLikes)
	}
	if stats.TotalSubscribers != 2 {
		t.Errorf("TotalSubscribers = %d, want 2", stats.TotalSubscribers)
	}

	if _, err := svc.GetChannelStats(ctx, viewer.Anonymous(), docstore.NewID().Hex()); !errno.Is(err, errno.NotFoundErr) {
		t.Errorf("missing channel should be NotFoundErr, got %v", err)
	}
}

// TestGetChannelVideos 本人可见草稿 他人只见发布
func TestGetChannelVideos(t *testing.T) {
	ctx := context.Background()
	m, channel := dashFixture(t)
	svc := NewDashboardService(m)

	res, err := svc.GetChannelVideos(ctx, viewer.User(channel), channel.Hex(), "", "")
	if err != nil {
		t.Fatalf("GetChannelVideos: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("owner sees %d videos, want 3", res.Total)
	}
	// 列表里要能看到发布状态
	if _, ok := res.Items[0]["isPublished"]; !ok {
		t.Error("dashboard listing must expose isPublished")
	}

	res, err = svc.GetChannelVideos(ctx, viewer.Anonymous(), channel.Hex(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 {
		t.Errorf("stranger sees %d videos, want 2", res.Total)
	}
}
