package docstore

import (
	"context"
	"time"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo 生产环境的存储适配实现
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.WithMessage(err, "mongo connect failed")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, errors.WithMessage(err, "mongo ping failed")
	}
	return &Mongo{client: client, db: client.Database(database)}, nil
}

// EnsureIndexes 建立订阅对唯一索引与视频文本索引
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(constants.CollectionSubscriptions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.WithMessage(err, "create subscription index failed")
	}
	_, err = m.db.Collection(constants.CollectionLikes).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "likedBy", Value: 1}, {Key: "targetKind", Value: 1}, {Key: "targetId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.WithMessage(err, "create like index failed")
	}
	_, err = m.db.Collection(constants.CollectionVideos).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
		Options: options.Index().SetName(constants.VideoSearchIndex),
	})
	return errors.WithMessage(err, "create video text index failed")
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Find(ctx context.Context, collection string, filter Predicate) ([]Doc, error) {
	cur, err := m.db.Collection(collection).Find(ctx, filterToBson(filter))
	if err != nil {
		return nil, wrapMongoErr(err, "find "+collection)
	}
	defer cur.Close(ctx)
	var out []Doc
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, wrapMongoErr(err, "decode "+collection)
		}
		out = append(out, normalizeMap(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, wrapMongoErr(err, "cursor "+collection)
	}
	return out, nil
}

func (m *Mongo) FindOne(ctx context.Context, collection string, filter Predicate) (Doc, error) {
	var raw bson.M
	err := m.db.Collection(collection).FindOne(ctx, filterToBson(filter)).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.WithMessage(errno.NotFoundErr, collection)
		}
		return nil, wrapMongoErr(err, "find one "+collection)
	}
	return normalizeMap(raw), nil
}

func (m *Mongo) Insert(ctx context.Context, collection string, doc Doc) (ID, error) {
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = NewID()
	}
	id, _ := doc["_id"].(ID)
	_, err := m.db.Collection(collection).InsertOne(ctx, denormalize(doc))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ID{}, errors.WithMessage(errno.ConflictErr, collection)
		}
		return ID{}, wrapMongoErr(err, "insert "+collection)
	}
	return id, nil
}

func (m *Mongo) Update(ctx context.Context, collection string, id ID, patch Doc) error {
	res, err := m.db.Collection(collection).UpdateByID(ctx, id.ObjectID(), bson.M{"$set": denormalize(patch)})
	if err != nil {
		return wrapMongoErr(err, "update "+collection)
	}
	if res.MatchedCount == 0 {
		return errors.WithMessage(errno.NotFoundErr, collection)
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, collection string, id ID) error {
	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id.ObjectID()})
	if err != nil {
		return wrapMongoErr(err, "delete "+collection)
	}
	if res.DeletedCount == 0 {
		return errors.WithMessage(errno.NotFoundErr, collection)
	}
	return nil
}

func (m *Mongo) DeleteMany(ctx context.Context, collection string, filter Predicate) (int64, error) {
	res, err := m.db.Collection(collection).DeleteMany(ctx, filterToBson(filter))
	if err != nil {
		return 0, wrapMongoErr(err, "delete many "+collection)
	}
	return res.DeletedCount, nil
}

func (m *Mongo) Count(ctx context.Context, collection string, filter Predicate) (int64, error) {
	n, err := m.db.Collection(collection).CountDocuments(ctx, filterToBson(filter))
	if err != nil {
		return 0, wrapMongoErr(err, "count "+collection)
	}
	return n, nil
}

func (m *Mongo) AtomicIncrement(ctx context.Context, collection string, id ID, field string, delta int64) error {
	res, err := m.db.Collection(collection).UpdateByID(ctx, id.ObjectID(), bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return wrapMongoErr(err, "inc "+collection)
	}
	if res.MatchedCount == 0 {
		return errors.WithMessage(errno.NotFoundErr, collection)
	}
	return nil
}

func (m *Mongo) SetAdd(ctx context.Context, collection string, id ID, field string, value any) error {
	res, err := m.db.Collection(collection).UpdateByID(ctx, id.ObjectID(), bson.M{"$addToSet": bson.M{field: denormalize(value)}})
	if err != nil {
		return wrapMongoErr(err, "addToSet "+collection)
	}
	if res.MatchedCount == 0 {
		return errors.WithMessage(errno.NotFoundErr, collection)
	}
	return nil
}

func (m *Mongo) Pull(ctx context.Context, collection string, id ID, field string, value any) error {
	res, err := m.db.Collection(collection).UpdateByID(ctx, id.ObjectID(), bson.M{"$pull": bson.M{field: denormalize(value)}})
	if err != nil {
		return wrapMongoErr(err, "pull "+collection)
	}
	if res.MatchedCount == 0 {
		return errors.WithMessage(errno.NotFoundErr, collection)
	}
	return nil
}

func (m *Mongo) Push(ctx context.Context, collection string, id ID, field string, value any) error {
	res, err := m.db.Collection(collection).UpdateByID(ctx, id.ObjectID(), bson.M{"$push": bson.M{field: denormalize(value)}})
	if err != nil {
		return wrapMongoErr(err, "push "+collection)
	}
	if res.MatchedCount == 0 {
		return errors.WithMessage(errno.NotFoundErr, collection)
	}
	return nil
}

// TextSearch 依赖EnsureIndexes建立的text索引 按textScore降序
func (m *Mongo) TextSearch(ctx context.Context, collection string, fields []string, query string, limit int64) ([]ID, error) {
	_ = fields // mongo的text索引在建索引时固定字段
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := m.db.Collection(collection).Find(ctx, bson.M{"$text": bson.M{"$search": query}}, opts)
	if err != nil {
		return nil, wrapMongoErr(err, "text search "+collection)
	}
	defer cur.Close(ctx)
	var ids []ID
	for cur.Next(ctx) {
		var row struct {
			ID ID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, wrapMongoErr(err, "decode search "+collection)
		}
		ids = append(ids, row.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, wrapMongoErr(err, "search cursor "+collection)
	}
	return ids, nil
}

func filterToBson(p Predicate) bson.M {
	switch p.kind {
	case predEq:
		return bson.M{p.field: denormalize(p.value)}
	case predIn:
		vals := make([]any, 0, len(p.values))
		for _, v := range p.values {
			vals = append(vals, denormalize(v))
		}
		return bson.M{p.field: bson.M{"$in": vals}}
	case predAnd:
		if len(p.children) == 0 {
			return bson.M{}
		}
		parts := make([]bson.M, 0, len(p.children))
		for _, c := range p.children {
			parts = append(parts, filterToBson(c))
		}
		return bson.M{"$and": parts}
	default:
		return bson.M{}
	}
}

func denormalize(v any) any {
	switch t := v.(type) {
	case ID:
		return t.ObjectID()
	case Doc:
		out := bson.M{}
		for k, e := range t {
			out[k] = denormalize(e)
		}
		return out
	case map[string]any:
		out := bson.M{}
		for k, e := range t {
			out[k] = denormalize(e)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, denormalize(e))
		}
		return out
	case []ID:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, e.ObjectID())
		}
		return out
	default:
		return v
	}
}

func wrapMongoErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	// 其余驱动层错误统一视为瞬时不可用 由只读调用方决定是否重试
	return errors.WithMessagef(errno.UnavailableErr, "%s: %v", op, err)
}
