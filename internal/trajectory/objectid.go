package trajectory

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ParseObjectID coerces a caller-supplied id to an ObjectID.
//
// Strings must hold a base-10 integer; surrounding whitespace is ignored.
// Integer, float (truncated toward zero), bool and json.Number values are
// coerced with cast. Anything else, including nil, is INVALID_OBJECT_ID.
func ParseObjectID(raw any) (ObjectID, error) {
	switch v := raw.(type) {
	case nil:
		return 0, invalidObjectID(raw, nil)
	case ObjectID:
		return v, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, invalidObjectID(raw, err)
		}
		return ObjectID(n), nil
	case float64:
		if err := checkFloatID(v); err != nil {
			return 0, invalidObjectID(raw, err)
		}
	case float32:
		if err := checkFloatID(float64(v)); err != nil {
			return 0, invalidObjectID(raw, err)
		}
	case uint64:
		if v > math.MaxInt64 {
			return 0, invalidObjectID(raw, errOutOfRange)
		}
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, invalidObjectID(raw, errOutOfRange)
		}
	}

	n, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, invalidObjectID(raw, err)
	}
	return ObjectID(n), nil
}

var errOutOfRange = errors.New("out of int64 range")

// checkFloatID rejects floats that do not truncate to an int64.
func checkFloatID(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("not a finite number")
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return errOutOfRange
	}
	return nil
}

func invalidObjectID(raw any, cause error) *Error {
	return &Error{
		Code:    ErrCodeInvalidObjectID,
		Op:      "extract",
		Message: fmt.Sprintf("%v is not a valid object_id", raw),
		Err:     cause,
	}
}
