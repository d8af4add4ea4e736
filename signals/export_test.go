package signals

// SubscriberCount exposes how many cells are subscribed to cell.
func SubscriberCount(cell SignalAware) int {
	return cell.base().subs.Cardinality()
}

// SourceCount exposes how many sources cell read during its last evaluation.
func SourceCount(cell SignalAware) int {
	return len(cell.base().deps)
}
