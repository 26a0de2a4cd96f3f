package model

import (
	"bytes"

	"github.com/bytedance/sonic"
)

// Scalar 保存上游 JSON 标量字段的原始文本。
// 上游数值字段有时是字符串有时是数字，这里统一按文本保存，由调用方决定如何转换。
type Scalar struct {
	raw     string
	present bool
	null    bool
}

// NewScalar 构造一个已赋值的 Scalar，测试和手工组装记录时使用
func NewScalar(v string) Scalar {
	return Scalar{raw: v, present: true}
}

func (s *Scalar) UnmarshalJSON(b []byte) error {
	s.present = true
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		s.raw, s.null = "", true
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := sonic.Unmarshal(b, &v); err != nil {
			return err
		}
		s.raw = v
	default:
		s.raw = string(b)
	}
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.present || s.null {
		return []byte("null"), nil
	}
	return sonic.Marshal(s.raw)
}

// Present 字段在 JSON 中出现过（包括显式 null）
func (s Scalar) Present() bool { return s.present }

func (s Scalar) IsNull() bool { return s.null }

func (s Scalar) String() string { return s.raw }
