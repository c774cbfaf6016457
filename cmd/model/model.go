// Package model 文档实体 与存储中的集合一一对应
package model

import (
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
)

// MediaFile 对象存储产物引用
type MediaFile struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"public_id"`
}

type User struct {
	ID           docstore.ID   `bson:"_id" json:"id"`
	Username     string        `bson:"username" json:"username"`
	FullName     string        `bson:"fullName" json:"full_name"`
	Avatar       MediaFile     `bson:"avatar" json:"avatar"`
	WatchHistory []docstore.ID `bson:"watchHistory" json:"watch_history"`
	CreatedAt    time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updated_at"`
}

type Video struct {
	ID          docstore.ID `bson:"_id" json:"id"`
	Owner       docstore.ID `bson:"owner" json:"owner"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description" json:"description"`
	VideoFile   MediaFile   `bson:"videoFile" json:"video_file"`
	Thumbnail   MediaFile   `bson:"thumbnail" json:"thumbnail"`
	Duration    float64     `bson:"duration" json:"duration"`
	// Views 只增不减 由读取侧的视图事件异步自增
	Views       int64     `bson:"views" json:"views"`
	IsPublished bool      `bson:"isPublished" json:"is_published"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updated_at"`
}

type Comment struct {
	ID        docstore.ID `bson:"_id" json:"id"`
	Owner     docstore.ID `bson:"owner" json:"owner"`
	Video     docstore.ID `bson:"video" json:"video"`
	Content   string      `bson:"content" json:"content"`
	CreatedAt time.Time   `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time   `bson:"updatedAt" json:"updated_at"`
}

// Like 多态目标用标签变体建模 不会出现两个目标同时有值
type Like struct {
	ID         docstore.ID `bson:"_id" json:"id"`
	LikedBy    docstore.ID `bson:"likedBy" json:"liked_by"`
	TargetKind string      `bson:"targetKind" json:"target_kind"`
	TargetID   docstore.ID `bson:"targetId" json:"target_id"`
	CreatedAt  time.Time   `bson:"createdAt" json:"created_at"`
}

type Subscription struct {
	ID         docstore.ID `bson:"_id" json:"id"`
	Subscriber docstore.ID `bson:"subscriber" json:"subscriber"`
	Channel    docstore.ID `bson:"channel" json:"channel"`
	CreatedAt  time.Time   `bson:"createdAt" json:"created_at"`
}

// Playlist videos保持插入顺序 允许重复引用
type Playlist struct {
	ID          docstore.ID   `bson:"_id" json:"id"`
	Owner       docstore.ID   `bson:"owner" json:"owner"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Videos      []docstore.ID `bson:"videos" json:"videos"`
	CreatedAt   time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updated_at"`
}
