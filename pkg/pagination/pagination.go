// Package pagination 把页码请求翻译为稳定的窗口契约
// 与承载数据的配方无关
package pagination

import (
	"strconv"

	"github.com/JayPanchal-15092005/Backend-Videotube/pkg/constants"
)

type Page struct {
	Num   int64
	Limit int64
}

// Resolve 解析page/limit 非数字或越界输入回退默认值 不报错
func Resolve(page, limit string) Page {
	p := parseOr(page, constants.DefaultPage)
	l := parseOr(limit, constants.DefaultLimit)
	if l > constants.MaxLimit {
		l = constants.MaxLimit
	}
	return Page{Num: p, Limit: l}
}

func Of(num, limit int64) Page {
	if num < 1 {
		num = constants.DefaultPage
	}
	if limit < 1 {
		limit = constants.DefaultLimit
	}
	if limit > constants.MaxLimit {
		limit = constants.MaxLimit
	}
	return Page{Num: num, Limit: limit}
}

func parseOr(s string, def int64) int64 {
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func (p Page) Offset() int64 {
	return (p.Num - 1) * p.Limit
}

// Window 一次分页的结果窗口 Start/End为切片下标
type Window struct {
	Total      int64
	TotalPages int64
	Page       int64
	Limit      int64
	Start      int
	End        int
}

// Window 总数为0时总页数为0 超出末页返回空窗口与正确总数
func (p Page) Window(total int) Window {
	w := Window{
		Total: int64(total),
		Page:  p.Num,
		Limit: p.Limit,
	}
	w.TotalPages = (w.Total + p.Limit - 1) / p.Limit
	start := p.Offset()
	if start > w.Total {
		start = w.Total
	}
	end := start + p.Limit
	if end > w.Total {
		end = w.Total
	}
	w.Start = int(start)
	w.End = int(end)
	return w
}
