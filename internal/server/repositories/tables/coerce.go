package tables

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dmitrijs2005/dailyquote/internal/common"
)

// coerce converts a decoded request value to the Go type the column's
// driver parameter expects. Numbers arrive from structpb as float64.
func coerce(c Column, v any) (any, error) {
	switch c.Kind {
	case KindInt:
		switch n := v.(type) {
		case float64:
			if n != math.Trunc(n) {
				return nil, common.NewValidationError(c.Name, "must be an integer")
			}
			return int64(n), nil
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, common.NewValidationError(c.Name, "must be an integer")
			}
			return i, nil
		case string:
			i, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return nil, common.NewValidationError(c.Name, "must be an integer")
			}
			return i, nil
		}
	case KindText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindTime:
		if s, ok := v.(string); ok {
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, common.NewValidationError(c.Name, "must be an RFC 3339 timestamp")
			}
			return t, nil
		}
	}
	return nil, common.NewValidationError(c.Name, fmt.Sprintf("unsupported value %v", v))
}

// normalize turns a scanned driver value into something structpb can carry.
func normalize(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return x
	}
}
