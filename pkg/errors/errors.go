package errors

import "errors"

// ErrLockHeld 分布式锁已被其他请求持有
var ErrLockHeld = errors.New("资源正被其他请求占用，请稍后重试")
