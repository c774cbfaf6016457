package errno

import (
	"errors"
	"fmt"
)

// ErrNo 统一错误码 调用方通过errors.Is与下方哨兵值比对
type ErrNo struct {
	ErrCode int32
	ErrMsg  string
}

func (e *ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

func NewErrNo(code int32, msg string) *ErrNo {
	return &ErrNo{ErrCode: code, ErrMsg: msg}
}

var (
	Success = NewErrNo(0, "Success")

	// ParamErr 调用方错误 参数或标识符格式非法 不可重试
	ParamErr = NewErrNo(10001, "invalid argument")
	// NotFoundErr 实体不存在 与参数错误严格区分 不可重试
	NotFoundErr = NewErrNo(10002, "entity not found")
	// PermissionErr 已认证但不是变更目标的所有者 不可重试
	PermissionErr = NewErrNo(10003, "permission denied")
	// ConflictErr 唯一约束冲突 如重复订阅 由调用处就地恢复
	ConflictErr = NewErrNo(10004, "duplicate key conflict")
	// UnavailableErr 存储瞬时故障 只读链路可由调用方重试
	UnavailableErr = NewErrNo(10005, "store unavailable")

	ServiceErr = NewErrNo(10006, "service internal error")
)

// Is 便于在包装链上判断错误类别
func Is(err error, target *ErrNo) bool {
	return errors.Is(err, target)
}
