// Package viewer 携带本次调用的请求主体身份
// 以显式参数传入每个配方 不进入context 不跨请求复用
package viewer

import "github.com/JayPanchal-15092005/Backend-Videotube/pkg/docstore"

type Viewer struct {
	id     docstore.ID
	authed bool
}

// User 已认证的调用者
func User(id docstore.ID) Viewer {
	return Viewer{id: id, authed: true}
}

// Anonymous 匿名读 所有"我是否做过X"的派生字段一律为false
func Anonymous() Viewer {
	return Viewer{}
}

func (v Viewer) ID() (docstore.ID, bool) {
	return v.id, v.authed
}

func (v Viewer) Authenticated() bool {
	return v.authed
}

// Is 判断调用者是否就是给定用户
func (v Viewer) Is(id docstore.ID) bool {
	return v.authed && v.id == id
}
