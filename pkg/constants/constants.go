package constants

import "time"

// 分页默认值 page/limit非法或缺省时回退到这里
const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
	MaxLimit     int64 = 100
)

// 集合名
const (
	CollectionUsers         = "users"
	CollectionVideos        = "videos"
	CollectionComments      = "comments"
	CollectionLikes         = "likes"
	CollectionSubscriptions = "subscriptions"
	CollectionPlaylists     = "playlists"
)

// Like目标的变体标签
const (
	LikeTargetVideo   = "video"
	LikeTargetComment = "comment"
)

// 视频搜索索引
const (
	VideoSearchIndex = "search-videos"
)

// viewsync消费端
const (
	ViewDrainInterval = 5 * time.Second
	ConsumerPrefetch  = 10
)
