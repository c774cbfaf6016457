package docstore

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doc 管道中流动的文档表示 值已经过normalize 只含
// Doc/[]any/ID/time.Time/int64/float64/string/bool/nil
type Doc map[string]any

// ToDoc 将bson标签的结构体转为文档
func ToDoc(v any) (Doc, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return normalizeMap(m), nil
}

// FromDoc 文档转回结构体
func FromDoc(d Doc, out any) error {
	raw, err := bson.Marshal(d)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// GetPath 支持a.b.c形式的嵌套取值
func GetPath(d Doc, path string) any {
	cur := any(d)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(Doc)
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}

func normalizeMap(m map[string]any) Doc {
	out := make(Doc, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

// Normalize 把bson解码产物折叠到Doc的值域
func Normalize(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return ID{oid: t}
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		arr := make([]any, 0, len(t))
		for _, e := range t {
			arr = append(arr, Normalize(e))
		}
		return arr
	case []any:
		arr := make([]any, 0, len(t))
		for _, e := range t {
			arr = append(arr, Normalize(e))
		}
		return arr
	case bson.M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case Doc:
		return normalizeMap(t)
	case bson.D:
		m := make(Doc, len(t))
		for _, e := range t {
			m[e.Key] = Normalize(e.Value)
		}
		return m
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case time.Time:
		return t.UTC()
	default:
		return v
	}
}

// ValuesEqual 宽松等值比较 数值按数轴比较 ID按其本体比较
func ValuesEqual(a, b any) bool {
	return compareValues(Normalize(a), Normalize(b)) == 0
}

// Compare 用于稳定排序 混合类型时按类型名兜底排序避免抖动
func Compare(a, b any) int {
	return compareValues(Normalize(a), Normalize(b))
}

func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	switch ta := a.(type) {
	case string:
		if tb, ok := b.(string); ok {
			return strings.Compare(ta, tb)
		}
	case time.Time:
		if tb, ok := b.(time.Time); ok {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			default:
				return 0
			}
		}
	case ID:
		if tb, ok := b.(ID); ok {
			return strings.Compare(ta.Hex(), tb.Hex())
		}
	case bool:
		if tb, ok := b.(bool); ok {
			switch {
			case ta == tb:
				return 0
			case !ta:
				return -1
			default:
				return 1
			}
		}
	}
	// 类型不同 无业务序 保持确定性即可
	return strings.Compare(typeName(a), typeName(b))
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int64, float64, float32:
		return "number"
	case time.Time:
		return "time"
	case ID:
		return "id"
	case bool:
		return "bool"
	default:
		return "other"
	}
}
