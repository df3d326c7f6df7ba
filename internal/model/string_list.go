package model

import (
	"database/sql/driver"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StringList is a list column stored as a JSON array. Scan also accepts a
// PostgreSQL array literal ({a,b}) for databases created with text[] columns.
type StringList []string

// Value encodes the list as JSON. A nil list is stored as [].
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("string list: unsupported source %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	if raw[0] == '{' {
		var arr pq.StringArray
		if err := arr.Scan(raw); err != nil {
			return err
		}
		*l = StringList(arr)
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}
