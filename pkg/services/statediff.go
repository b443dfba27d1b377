package services

// ComputeStateDiff compares the top-level keys of stateIn and stateOut and
// returns the three disjoint maps {added, removed, modified} (spec.md §4.1
// step 4, §8 scenario S3). Deep diff is intentionally not performed —
// nested values are compared structurally by equality, the same way a
// round trip through encoding/json normalizes numbers to float64 so that
// 1 and 1.0 compare equal.
//
// Grounded on original_source's compute_state_diff: union of top-level
// keys, key present only in stateOut → added, present only in stateIn →
// removed, present in both with differing values → modified ({before,
// after}).
func ComputeStateDiff(stateIn, stateOut map[string]any) map[string]any {
	if stateIn == nil && stateOut == nil {
		return nil
	}

	added := map[string]any{}
	removed := map[string]any{}
	modified := map[string]any{}

	for k, outVal := range stateOut {
		inVal, existed := stateIn[k]
		if !existed {
			added[k] = outVal
			continue
		}
		if !deepEqual(inVal, outVal) {
			modified[k] = map[string]any{"before": inVal, "after": outVal}
		}
	}
	for k, inVal := range stateIn {
		if _, existsInOut := stateOut[k]; !existsInOut {
			removed[k] = inVal
		}
	}

	return map[string]any{
		"added":    added,
		"removed":  removed,
		"modified": modified,
	}
}

// deepEqual compares two values decoded from JSON (map[string]any,
// []any, string, bool, float64, nil) for structural equality.
func deepEqual(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !deepEqual(v, bvv) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
