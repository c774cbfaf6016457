package mq

// ViewEvent 视频被成功读取一次 消费端负责原子自增views
type ViewEvent struct {
	VideoID   string `json:"video_id"`
	Timestamp int64  `json:"timestamp"`
	EventID   string `json:"event_id"`
}

// WatchEvent 已认证观看者的观看历史追加 幂等
type WatchEvent struct {
	UserID    string `json:"user_id"`
	VideoID   string `json:"video_id"`
	Timestamp int64  `json:"timestamp"`
	EventID   string `json:"event_id"`
}

// 拓扑常量
const (
	ViewEventExchange = "view_events"
	ViewEventQueue    = "view_event_queue"

	WatchEventExchange = "watch_events"
	WatchEventQueue    = "watch_event_queue"
)
