// Package pipeline 可组合的聚合阶段原语
// 配方是有序的阶段列表 阶段只读不写存储
package pipeline

import (
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/pagination"
	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/viewer"
)

type Stage interface {
	stage()
}

type matchStage struct {
	filter docstore.Predicate
}

// Match 过滤在途集合 位于管道头部时会下推为存储查询
func Match(filter docstore.Predicate) Stage {
	return matchStage{filter: filter}
}

// JoinSpec 左外连接描述 外键命中以一次批量查询完成
// 子管道作用于整批连接结果 不按行执行
type JoinSpec struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
	Pipeline     []Stage
	// TakeFirst 连接后取首个匹配为单值 无匹配的文档被丢弃
	TakeFirst bool
}

type joinStage struct {
	spec JoinSpec
}

func Join(spec JoinSpec) Stage {
	return joinStage{spec: spec}
}

// DeriveFunc 由观察者与已连接数组计算派生值 查询期计算 从不落库
type DeriveFunc func(v viewer.Viewer, d docstore.Doc) any

type DerivedField struct {
	Name string
	Fn   DeriveFunc
}

type deriveStage struct {
	fields []DerivedField
}

func Derive(fields ...DerivedField) Stage {
	return deriveStage{fields: fields}
}

// Count 连接数组的基数
func Count(name, as string) DerivedField {
	return DerivedField{Name: name, Fn: func(_ viewer.Viewer, d docstore.Doc) any {
		return int64(len(asArray(d[as])))
	}}
}

// ContainsViewer 连接数组中是否存在key等于当前调用者的元素
// 匿名观察者恒为false
func ContainsViewer(name, as, key string) DerivedField {
	return DerivedField{Name: name, Fn: func(v viewer.Viewer, d docstore.Doc) any {
		id, ok := v.ID()
		if !ok {
			return false
		}
		for _, e := range asArray(d[as]) {
			sub, ok := e.(docstore.Doc)
			if !ok {
				continue
			}
			if docstore.ValuesEqual(sub[key], id) {
				return true
			}
		}
		return false
	}}
}

// First 取连接数组首元素 常用于1:1连接压平
func First(name, as string) DerivedField {
	return DerivedField{Name: name, Fn: func(_ viewer.Viewer, d docstore.Doc) any {
		arr := asArray(d[as])
		if len(arr) == 0 {
			return nil
		}
		return arr[0]
	}}
}

// Last 取连接数组末元素
func Last(name, as string) DerivedField {
	return DerivedField{Name: name, Fn: func(_ viewer.Viewer, d docstore.Doc) any {
		arr := asArray(d[as])
		if len(arr) == 0 {
			return nil
		}
		return arr[len(arr)-1]
	}}
}

// Sum 对连接数组中每个文档的field求和
func Sum(name, as, field string) DerivedField {
	return DerivedField{Name: name, Fn: func(_ viewer.Viewer, d docstore.Doc) any {
		var total int64
		for _, e := range asArray(d[as]) {
			sub, ok := e.(docstore.Doc)
			if !ok {
				continue
			}
			if n, ok := sub[field].(int64); ok {
				total += n
			}
		}
		return total
	}}
}

// Field 自定义派生
func Field(name string, fn DeriveFunc) DerivedField {
	return DerivedField{Name: name, Fn: fn}
}

type sortStage struct {
	field string
	desc  bool
}

// SortBy 稳定排序
func SortBy(field string, desc bool) Stage {
	return sortStage{field: field, desc: desc}
}

type paginateStage struct {
	page pagination.Page
}

// Paginate 对已排序集合开窗 必须位于Sort之后Project之前
func Paginate(p pagination.Page) Stage {
	return paginateStage{page: p}
}

type projectStage struct {
	paths []string
}

// Project 输出字段白名单 支持嵌套路径如"owner.avatar.url"
// 放在最后 让前序阶段可引用最终输出隐藏的字段
func Project(paths ...string) Stage {
	return projectStage{paths: paths}
}

func (matchStage) stage()    {}
func (joinStage) stage()     {}
func (deriveStage) stage()   {}
func (sortStage) stage()     {}
func (paginateStage) stage() {}
func (projectStage) stage()  {}

func asArray(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case nil:
		return nil
	default:
		return []any{t}
	}
}
