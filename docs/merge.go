package docs

// concatKeys are merged by appending the later list to the earlier one.
var concatKeys = map[string]bool{
	"notes":        true,
	"requirements": true,
	"seealso":      true,
}

// Merge merges src into dst and returns dst.  Mappings merge key by key
// at any depth.  Under the keys notes, requirements and seealso a list
// in dst is extended by src.  Otherwise the value from src replaces the
// one in dst, lists included.  Values taken from src are copied.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, sv := range src {
		dv, ok := dst[k]
		if !ok {
			dst[k] = clone(sv)
			continue
		}
		if dl, isList := dv.([]any); isList && concatKeys[k] {
			res := make([]any, 0, len(dl)+1)
			res = append(res, dl...)
			if sl, ok := sv.([]any); ok {
				for _, item := range sl {
					res = append(res, clone(item))
				}
			} else if sv != nil {
				res = append(res, clone(sv))
			}
			dst[k] = res
			continue
		}
		dm, dIsMap := dv.(map[string]any)
		sm, sIsMap := sv.(map[string]any)
		if dIsMap && sIsMap {
			dst[k] = Merge(dm, sm)
			continue
		}
		dst[k] = clone(sv)
	}
	return dst
}

func clone(v any) any {
	switch x := v.(type) {
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, vv := range x {
			res[k] = clone(vv)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, vv := range x {
			res[i] = clone(vv)
		}
		return res
	default:
		return v
	}
}
