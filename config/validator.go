package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ByLCY/fasttext/fonts"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		// 错误信息使用 YAML 字段名。
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		// Length 按数值参与 gte 等比较。
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if l, ok := field.Interface().(Length); ok {
				return l.Value
			}
			return nil
		}, Length{})
		validateInst = v
	})
	return validateInst
}

// Validate performs schema and cross-field validation on the attributes.
func Validate(a *Attrs) error {
	if a == nil {
		return NewValidationError("attrs", "attributes are nil", nil)
	}
	if err := validatorInstance().Struct(a); err != nil {
		return convertValidationError(err)
	}
	if strings.HasPrefix(a.Font.Src, "embed:") && !fonts.IsBuiltin(a.Font.Src) {
		return NewValidationError("font.src", fmt.Sprintf("unknown embedded font %q", a.Font.Src), nil)
	}
	if name, ok := builtinFontName(a.Font.Src); ok {
		if _, declared := a.Fonts[name]; !declared {
			return NewValidationError("font.src", fmt.Sprintf("font %q is not declared under fonts", name), nil)
		}
	}
	if a.Data != "" && a.DataFile != "" {
		return NewValidationError("data", "data and dataFile are mutually exclusive", nil)
	}
	if a.Marker != nil && a.Marker.Text == "" && a.Marker.Width.IsZero() && a.Marker.Action == "" {
		return NewValidationError("marker", "marker needs a text, a width or an action", nil)
	}
	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return NewValidationError(field, msg, err)
	}

	return NewValidationError("attrs", err.Error(), err)
}

// yamlishFieldName 去掉根结构名，返回 font.size 这样的路径。
func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func builtinFontName(src string) (string, bool) {
	for _, prefix := range []string{"built-in:", "builtin:"} {
		if name, ok := strings.CutPrefix(src, prefix); ok {
			return name, true
		}
	}
	return "", false
}
