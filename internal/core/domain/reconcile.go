package domain

// Outcome describes what the Reconciler did with a single backing reference.
type Outcome int

const (
	// OutcomeInUse means the reference matched a deletion candidate, which was withdrawn.
	OutcomeInUse Outcome = iota
	// OutcomeAlreadyUsed means the reference matched a file already recorded as used.
	OutcomeAlreadyUsed
	// OutcomeKnown means the reference matched a cache file that was never a candidate.
	OutcomeKnown
	// OutcomeUnresolved means the reference matched nothing in the cache.
	OutcomeUnresolved
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeInUse:
		return "in-use"
	case OutcomeAlreadyUsed:
		return "already-used"
	case OutcomeKnown:
		return "known"
	case OutcomeUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Reconciler narrows the set of cache files eligible for deletion by removing
// every file that an instance still uses as its backing file.
//
// Candidates keep the order in which the cache scan produced them.
// A Reconciler is not safe for concurrent use.
type Reconciler struct {
	entries    []CacheEntry
	candidate  map[string]bool
	known      map[string]struct{}
	used       map[string]struct{}
	usedOrder  []string
	unresolved []BackingReference
}

// NewReconciler creates a Reconciler over all scanned cache entries.
// isCandidate selects which entries start out as deletion candidates;
// every entry counts as a known cache file regardless.
func NewReconciler(entries []CacheEntry, isCandidate func(CacheEntry) bool) *Reconciler {
	r := &Reconciler{
		entries:   entries,
		candidate: make(map[string]bool, len(entries)),
		known:     make(map[string]struct{}, len(entries)),
		used:      make(map[string]struct{}),
	}
	for _, e := range entries {
		r.known[e.Path] = struct{}{}
		if isCandidate(e) {
			r.candidate[e.Path] = true
		}
	}
	return r
}

// Apply reconciles one backing reference against the candidate set.
func (r *Reconciler) Apply(ref BackingReference) Outcome {
	b := ref.Path

	if r.candidate[b] {
		delete(r.candidate, b)
		r.markUsed(b)
		return OutcomeInUse
	}

	if _, ok := r.used[b]; ok {
		return OutcomeAlreadyUsed
	}

	if _, ok := r.known[b]; ok {
		return OutcomeKnown
	}

	r.unresolved = append(r.unresolved, ref)
	return OutcomeUnresolved
}

func (r *Reconciler) markUsed(path string) {
	if _, ok := r.used[path]; ok {
		return
	}
	r.used[path] = struct{}{}
	r.usedOrder = append(r.usedOrder, path)
}

// Result returns the current reconciliation state.
func (r *Reconciler) Result() ReconcileResult {
	deletable := make([]CacheEntry, 0, len(r.candidate))
	for _, e := range r.entries {
		if r.candidate[e.Path] {
			deletable = append(deletable, e)
		}
	}

	used := make([]string, len(r.usedOrder))
	copy(used, r.usedOrder)

	unresolved := make([]BackingReference, len(r.unresolved))
	copy(unresolved, r.unresolved)

	return ReconcileResult{
		Deletable:  deletable,
		Used:       used,
		Unresolved: unresolved,
	}
}

// ReconcileResult is the outcome of a reconciliation run.
type ReconcileResult struct {
	// Deletable lists the cache files that may be removed, in scan order.
	Deletable []CacheEntry
	// Used lists the candidate files that turned out to be referenced.
	Used []string
	// Unresolved lists references that matched no cache file.
	Unresolved []BackingReference
}

// HasUnresolved reports whether any reference could not be located.
// When true, nothing may be deleted.
func (r ReconcileResult) HasUnresolved() bool {
	return len(r.Unresolved) > 0
}

// DeletablePaths returns the paths of the deletable files in order.
func (r ReconcileResult) DeletablePaths() []string {
	paths := make([]string, len(r.Deletable))
	for i, e := range r.Deletable {
		paths[i] = e.Path
	}
	return paths
}

// ReclaimableBytes returns the total size of the deletable files.
func (r ReconcileResult) ReclaimableBytes() uint64 {
	var total uint64
	for _, e := range r.Deletable {
		if e.Size > 0 {
			total += uint64(e.Size)
		}
	}
	return total
}
