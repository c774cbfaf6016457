package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ViewBuffer 视图计数缓冲 消费端先在redis累加 再批量落库
// 避免热点视频对存储的逐次$inc
type ViewBuffer struct {
	client *redis.Client
	// 缓冲key的兜底过期时间 防止残留
	pendingExpire time.Duration
}

const pendingViewKey = "video:pending_views:%s"

func NewViewBuffer(client *redis.Client) *ViewBuffer {
	return &ViewBuffer{
		client:        client,
		pendingExpire: 24 * time.Hour,
	}
}

// Add 累加待落库的视图数
func (vb *ViewBuffer) Add(ctx context.Context, videoID string, delta int64) error {
	key := fmt.Sprintf(pendingViewKey, videoID)
	if err := vb.client.IncrBy(ctx, key, delta).Err(); err != nil {
		return fmt.Errorf("failed to buffer view count: %w", err)
	}
	return vb.client.Expire(ctx, key, vb.pendingExpire).Err()
}

// Drain 将全部缓冲计数写回存储 key先读后删 删除失败只告警
func (vb *ViewBuffer) Drain(ctx context.Context, store docstore.Store) error {
	var cursor uint64
	for {
		keys, next, err := vb.client.Scan(ctx, cursor, fmt.Sprintf(pendingViewKey, "*"), 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan pending views: %w", err)
		}
		for _, key := range keys {
			if err := vb.drainKey(ctx, store, key); err != nil {
				logrus.Warnf("drain %s failed: %v", key, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (vb *ViewBuffer) drainKey(ctx context.Context, store docstore.Store, key string) error {
	val, err := vb.client.GetDel(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return err
	}
	delta, err := strconv.ParseInt(val, 10, 64)
	if err != nil || delta == 0 {
		return err
	}
	hex := key[len(fmt.Sprintf(pendingViewKey, "")):]
	id, err := docstore.ParseID(hex)
	if err != nil {
		return err
	}
	return store.AtomicIncrement(ctx, constants.CollectionVideos, id, "views", delta)
}
