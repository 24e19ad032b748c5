package models

// AddMember inserts id into the set if absent. It reports whether the set changed.
func AddMember(set []string, id string) ([]string, bool) {
	if containsID(set, id) {
		return set, false
	}
	return append(set, id), true
}

// RemoveMember deletes id from the set. It reports whether the set changed.
func RemoveMember(set []string, id string) ([]string, bool) {
	out := set[:0:0]
	removed := false
	for _, v := range set {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	if !removed {
		return set, false
	}
	return out, true
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
