package model

import (
	"errors"
	"fmt"
)

// 错误种类（命令层与适配器边界使用）
//
// 调用者使用 errors.Is 判断种类，需要细节时用 errors.As 取出结构化错误：
//
//	if err := tl.MoveKeyframe(layer, 5, 8); err != nil {
//	    var cv *model.ConstraintViolationError
//	    if errors.As(err, &cv) {
//	        log.Warn().Str("reason", cv.Reason).Msg("move rejected")
//	    }
//	}
var (
	ErrLayerNotFound       = errors.New("layer not found")
	ErrKeyframeNotFound    = errors.New("keyframe not found")
	ErrSceneNotFound       = errors.New("scene not found")
	ErrFrameOutOfRange     = errors.New("frame out of range")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrLocked              = errors.New("layer is locked")
	ErrNotInitialized      = errors.New("not initialized")
	ErrEngineFailure       = errors.New("engine failure")
)

// FrameOutOfRangeError 帧号超出场景范围
type FrameOutOfRangeError struct {
	Given uint32
	Max   uint32
}

func (e *FrameOutOfRangeError) Error() string {
	return fmt.Sprintf("frame %d out of range (max %d)", e.Given, e.Max)
}

// Is 使 errors.Is(err, ErrFrameOutOfRange) 成立
func (e *FrameOutOfRangeError) Is(target error) bool { return target == ErrFrameOutOfRange }

// ConstraintViolationError 操作违反模型约束
type ConstraintViolationError struct {
	Reason string
}

func (e *ConstraintViolationError) Error() string {
	return "constraint violation: " + e.Reason
}

// Is 使 errors.Is(err, ErrConstraintViolation) 成立
func (e *ConstraintViolationError) Is(target error) bool { return target == ErrConstraintViolation }

// EngineFailureError 后端引擎失败
type EngineFailureError struct {
	Message string
}

func (e *EngineFailureError) Error() string {
	return "engine failure: " + e.Message
}

// Is 使 errors.Is(err, ErrEngineFailure) 成立
func (e *EngineFailureError) Is(target error) bool { return target == ErrEngineFailure }

func violation(format string, args ...any) error {
	return &ConstraintViolationError{Reason: fmt.Sprintf(format, args...)}
}

// IsRejection 报告错误是否属于"拒绝"类：操作在校验阶段失败，模型未被修改
func IsRejection(err error) bool {
	for _, kind := range []error{
		ErrLayerNotFound, ErrKeyframeNotFound, ErrSceneNotFound, ErrFrameOutOfRange,
		ErrConstraintViolation, ErrLocked,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
