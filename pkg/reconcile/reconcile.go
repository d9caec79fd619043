package reconcile

// Result holds both set differences of a reconciliation, each sorted by
// Compare.
type Result struct {
	// ToRemove lists resources declared in the manifest but absent on disk.
	// They are reported only; nothing removes them from the manifest.
	ToRemove []Entry `json:"to_remove" yaml:"to_remove" toml:"to_remove"`
	// ToAdd lists resources present on disk but not declared.
	ToAdd []Entry `json:"to_add" yaml:"to_add" toml:"to_add"`
}

// Reconcile computes declared − actual and actual − declared. Both inputs
// are treated as complete snapshots; neither is modified.
func Reconcile(declared, actual Set) Result {
	return Result{
		ToRemove: declared.Difference(actual).Sorted(),
		ToAdd:    actual.Difference(declared).Sorted(),
	}
}

// InSync reports whether both sides hold exactly the same entries.
func (r Result) InSync() bool {
	return len(r.ToAdd) == 0 && len(r.ToRemove) == 0
}

// HasStale reports whether the manifest declares resources missing on disk.
func (r Result) HasStale() bool {
	return len(r.ToRemove) > 0
}
