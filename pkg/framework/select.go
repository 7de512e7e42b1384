package framework

// SelectBest returns the candidate closest to desired from above: among all
// candidates c with c.IsDownwardsCompatible(desired), the one with the
// smallest (major, minor, patch). An exact match wins when present.
//
// ok is false when no candidate dominates desired; callers treat that as
// "this location is not usable". On ties the earliest candidate wins.
func SelectBest(desired Version, candidates []Version) (best Version, ok bool) {
	i := selectIndex(desired, candidates)
	if i < 0 {
		return Version{}, false
	}
	return candidates[i], true
}

// SelectBestName applies [SelectBest] to directory names. Names that do not
// parse as a framework version are skipped. The returned name is the
// original entry from names, so callers can join it onto a path without
// re-rendering the token.
//
// SelectBestName performs no filesystem access.
func SelectBestName(desired Version, names []string) (string, bool) {
	versions := make([]Version, 0, len(names))
	kept := make([]string, 0, len(names))
	for _, name := range names {
		v, ok := Parse(name)
		if !ok {
			continue
		}
		versions = append(versions, v)
		kept = append(kept, name)
	}

	i := selectIndex(desired, versions)
	if i < 0 {
		return "", false
	}
	return kept[i], true
}

func selectIndex(desired Version, candidates []Version) int {
	best := -1
	for i, c := range candidates {
		if !c.IsDownwardsCompatible(desired) {
			continue
		}
		if best >= 0 && compare(c, candidates[best]) >= 0 {
			continue
		}
		best = i
	}
	return best
}
