package docstore

type predicateKind int

const (
	predAll predicateKind = iota
	predEq
	predIn
	predAnd
)

// Predicate 适配层支持的过滤谓词 等值/集合成员/合取
type Predicate struct {
	kind     predicateKind
	field    string
	value    any
	values   []any
	children []Predicate
}

// All 匹配全集
func All() Predicate {
	return Predicate{kind: predAll}
}

func Eq(field string, value any) Predicate {
	return Predicate{kind: predEq, field: field, value: value}
}

func In(field string, values ...any) Predicate {
	return Predicate{kind: predIn, field: field, values: values}
}

func And(children ...Predicate) Predicate {
	if len(children) == 1 {
		return children[0]
	}
	return Predicate{kind: predAnd, children: children}
}

// Matches 在内存中求值 管道的非下推Match与内存存储共用这一实现
func (p Predicate) Matches(d Doc) bool {
	switch p.kind {
	case predAll:
		return true
	case predEq:
		return ValuesEqual(GetPath(d, p.field), p.value)
	case predIn:
		got := GetPath(d, p.field)
		for _, v := range p.values {
			if ValuesEqual(got, v) {
				return true
			}
		}
		return false
	case predAnd:
		for _, c := range p.children {
			if !c.Matches(d) {
				return false
			}
		}
		return true
	}
	return false
}
