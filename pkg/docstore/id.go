package docstore

import (
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/errno"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID 实体的全局唯一标识 适配层之上禁止裸字符串id流转
type ID struct {
	oid primitive.ObjectID
}

func NewID() ID {
	return ID{oid: primitive.NewObjectID()}
}

// ParseID 校验标识符格式 非法格式属于调用方错误
func ParseID(s string) (ID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return ID{}, errors.WithMessagef(errno.ParamErr, "invalid object id %q", s)
	}
	return ID{oid: oid}, nil
}

func FromObjectID(oid primitive.ObjectID) ID {
	return ID{oid: oid}
}

func (id ID) Hex() string {
	return id.oid.Hex()
}

func (id ID) IsZero() bool {
	return id.oid.IsZero()
}

func (id ID) ObjectID() primitive.ObjectID {
	return id.oid
}

func (id ID) String() string {
	return id.oid.Hex()
}

func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(id.oid)
}

func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var oid primitive.ObjectID
	if err := bson.UnmarshalValue(t, data, &oid); err != nil {
		return err
	}
	id.oid = oid
	return nil
}
