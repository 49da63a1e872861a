package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/errors"
)

const notBlankTag = "notblank"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// 错误字段使用 JSON 名称
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validateStruct 执行结构体校验，失败时转换为 ValidationError 的字段列表
func validateStruct(s interface{}) []pkgerrors.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []pkgerrors.FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]pkgerrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, pkgerrors.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return fields
}

// fieldPath 去掉顶层结构体名："SubjectRequest.modules[0].name" → "modules[0].name"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", notBlankTag:
		return "不能为空"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "至少需要 " + fe.Param() + " 项"
		}
		return "不能小于 " + fe.Param()
	case "max":
		return "超出长度上限 " + fe.Param()
	default:
		return "校验失败: " + fe.Tag()
	}
}
