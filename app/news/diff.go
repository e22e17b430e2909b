package news

// AnnotateRankDiff compares a fresh result set against the previous
// snapshot of the same source and sets Extra.Diff to
// oldIndex - newIndex for every item present in both. Items without a
// prior match keep a nil Diff. The sign convention is kept exactly as
// the clients expect it; do not flip it.
func AnnotateRankDiff(prev, items []NewsItem) {
	if len(prev) == 0 || len(items) == 0 {
		return
	}

	oldIndex := make(map[string]int, len(prev))
	for i, item := range prev {
		oldIndex[item.ID] = i
	}

	for i := range items {
		if o, ok := oldIndex[items[i].ID]; ok {
			diff := o - i
			items[i].Extra.Diff = &diff
		}
	}
}
