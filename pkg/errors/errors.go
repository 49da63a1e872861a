package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ── 错误分类 ──
//
// ValidationError: 调用存储前同步返回，不重试
// StoreError:      存储读写失败，调用点记录日志后一次性上抛，不重试
// 批量部分失败不单独建模为错误类型，由批量结果中的逐项状态体现

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 输入校验失败
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError 创建校验错误
func NewValidationError(fields ...FieldError) error {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "参数校验失败"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "参数校验失败: " + strings.Join(parts, "; ")
}

// StoreError 文档存储操作失败
type StoreError struct {
	Op  string
	Err error
}

// Store 包装存储错误；err 为 nil 时返回 nil
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("存储操作 %s 失败: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// AsValidation 提取 ValidationError
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsStore 判断是否为存储错误
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
