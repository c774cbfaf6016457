package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/config"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/cache"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/mq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// viewsync 消费视图/观看事件 视图先进redis缓冲 周期性批量落库
func main() {
	config.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
	defer initCancel()
	store, err := docstore.NewMongo(initCtx, config.ConfigInfo.Mongo.URI, config.ConfigInfo.Mongo.Database)
	if err != nil {
		logrus.Fatalf("mongo init failed: %v", err)
	}
	if err := store.EnsureIndexes(initCtx); err != nil {
		logrus.Fatalf("ensure indexes failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.ConfigInfo.Redis.Addr,
		Password: config.ConfigInfo.Redis.Password,
	})
	buffer := cache.NewViewBuffer(rdb)

	consumer, err := mq.NewConsumer(config.RabbitMqURL())
	if err != nil {
		logrus.Fatalf("rabbitmq init failed: %v", err)
	}
	defer consumer.Close()

	h := &eventHandler{store: store, buffer: buffer}
	if err := consumer.ConsumeViewEvents(ctx, h); err != nil {
		logrus.Fatalf("consume view events failed: %v", err)
	}
	if err := consumer.ConsumeWatchEvents(ctx, h); err != nil {
		logrus.Fatalf("consume watch events failed: %v", err)
	}
	logrus.Info("viewsync consumer started")

	ticker := time.NewTicker(constants.ViewDrainInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if err := buffer.Drain(ctx, store); err != nil {
				logrus.Errorf("drain view buffer failed: %v", err)
			}
		case sig := <-quit:
			logrus.Infof("received signal %v, shutting down", sig)
			cancel()
			// 停机前把缓冲清空
			drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := buffer.Drain(drainCtx, store); err != nil {
				logrus.Errorf("final drain failed: %v", err)
			}
			drainCancel()
			return
		}
	}
}

// eventHandler 视图进缓冲 观看历史直写存储集合追加
type eventHandler struct {
	store  docstore.Store
	buffer *cache.ViewBuffer
}

func (h *eventHandler) HandleViewEvent(ctx context.Context, event *mq.ViewEvent) error {
	return h.buffer.Add(ctx, event.VideoID, 1)
}

func (h *eventHandler) HandleWatchEvent(ctx context.Context, event *mq.WatchEvent) error {
	uid, err := docstore.ParseID(event.UserID)
	if err != nil {
		return err
	}
	vid, err := docstore.ParseID(event.VideoID)
	if err != nil {
		return err
	}
	return h.store.SetAdd(ctx, constants.CollectionUsers, uid, "watchHistory", vid)
}
