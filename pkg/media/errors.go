package media

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MissingFieldError 元数据缺少必要字段。
// 一次性收集所有缺失的字段，而不是遇到第一个就返回。
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required fields not found: %s", strings.Join(e.Fields, ", "))
}

// CheckRequiredFields 校验原始 JSON 对象包含全部必要字段。
func CheckRequiredFields(raw map[string]json.RawMessage, fields ...string) error {
	var missing []string
	for _, field := range fields {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldError{Fields: missing}
	}
	return nil
}
