package remote

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// Reply is the decoded answer to a Request.
type Reply struct {
	// Status holds integer and status replies, e.g. the HSET field count.
	Status string
	// Fields holds the known name/value pairs of a hash reply.
	Fields map[string]string
	// Keys holds the elements of a key list reply.
	Keys []string
}

// Empty reports whether a hash reply carried no fields, i.e. the hash does
// not exist.
func (r Reply) Empty() bool { return len(r.Fields) == 0 }

func decodeStatus(raw any) (Reply, error) {
	switch v := raw.(type) {
	case int64:
		return Reply{Status: strconv.FormatInt(v, 10)}, nil
	case string:
		return Reply{Status: v}, nil
	case nil:
		return Reply{}, nil
	default:
		return Reply{}, fmt.Errorf("%w: unexpected status reply %T", common.ErrReply, raw)
	}
}

// hashDecoder reads a flat name/value reply keeping only the listed names.
func hashDecoder(names ...string) ReplyDecoder {
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}

	return func(raw any) (Reply, error) {
		fields := map[string]string{}
		keep := func(k, v any) error {
			ks, ok1 := k.(string)
			vs, ok2 := v.(string)
			if !ok1 || !ok2 {
				return fmt.Errorf("%w: non-string hash element %T/%T", common.ErrReply, k, v)
			}
			if _, ok := known[ks]; ok {
				fields[ks] = vs
			}
			return nil
		}

		switch v := raw.(type) {
		case nil:
		case []any:
			if len(v)%2 != 0 {
				return Reply{}, fmt.Errorf("%w: hash reply has %d elements", common.ErrReply, len(v))
			}
			for i := 0; i < len(v); i += 2 {
				if err := keep(v[i], v[i+1]); err != nil {
					return Reply{}, err
				}
			}
		case map[any]any:
			for k, val := range v {
				if err := keep(k, val); err != nil {
					return Reply{}, err
				}
			}
		default:
			return Reply{}, fmt.Errorf("%w: unexpected hash reply %T", common.ErrReply, raw)
		}

		return Reply{Fields: fields}, nil
	}
}

func decodeKeys(raw any) (Reply, error) {
	switch v := raw.(type) {
	case nil:
		return Reply{}, nil
	case []any:
		keys := make([]string, 0, len(v))
		for i, el := range v {
			s, ok := el.(string)
			if !ok {
				return Reply{}, fmt.Errorf("%w: key %d is %T", common.ErrReply, i, el)
			}
			keys = append(keys, s)
		}
		return Reply{Keys: keys}, nil
	default:
		return Reply{}, fmt.Errorf("%w: unexpected key list reply %T", common.ErrReply, raw)
	}
}
