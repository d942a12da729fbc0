package view

// Flags is the per-instance state bitset stored in the LView header.
type Flags uint32

const (
	// FlagCreationMode is set from construction until the creation pass
	// finishes, including on the failure path.
	FlagCreationMode Flags = 1 << 0

	// FlagFirstLViewPass is set until the first refresh of this instance
	// completes successfully.
	FlagFirstLViewPass Flags = 1 << 1

	// FlagCheckAlways marks views refreshed on every tick. Absent on
	// on-push component views, which refresh only when dirty.
	FlagCheckAlways Flags = 1 << 2

	// FlagDirty schedules the view for refresh on the next tick.
	FlagDirty Flags = 1 << 3

	// FlagAttached means the view participates in change detection.
	FlagAttached Flags = 1 << 4

	// FlagDestroyed is terminal; a destroyed view is skipped by every pass.
	FlagDestroyed Flags = 1 << 5

	// FlagIsRoot marks the view at the top of a bootstrapped tree.
	FlagIsRoot Flags = 1 << 6

	// FlagRefreshTransplantedView marks an embedded view whose declaration
	// view has refreshed but whose insertion point lives elsewhere. The
	// insertion container's counter tracks how many of these exist below it.
	FlagRefreshTransplantedView Flags = 1 << 7

	// FlagHasEmbeddedViewInjector marks views created with an explicit
	// embedded-view injector.
	FlagHasEmbeddedViewInjector Flags = 1 << 8

	initPhaseShift       = 9
	initPhaseMask  Flags = 0b11 << initPhaseShift
)

// InitPhase is the two-bit lifecycle-initialization state machine. It only
// ever advances.
type InitPhase uint32

const (
	OnInitPending InitPhase = iota
	AfterContentInitPending
	AfterViewInitPending
	InitPhaseCompleted
)

// InitPhase extracts the init-phase field.
func (f Flags) InitPhase() InitPhase {
	return InitPhase((f & initPhaseMask) >> initPhaseShift)
}

// WithInitPhase returns the flags with the init-phase field replaced.
// The phase is monotonic; callers advance it one step at a time.
func (f Flags) WithInitPhase(p InitPhase) Flags {
	return (f &^ initPhaseMask) | (Flags(p) << initPhaseShift)
}

// Has reports whether every bit in mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}
