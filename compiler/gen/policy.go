package gen

// Action is the decision taken for one artifact.
type Action uint8

const (
	// ActionCreate writes an artifact whose target does not exist.
	ActionCreate Action = iota + 1
	// ActionOverwrite replaces an existing target.
	ActionOverwrite
	// ActionSkip leaves an existing target untouched.
	ActionSkip
)

// String returns the name of the action.
func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	case ActionSkip:
		return "skip"
	default:
		return "invalid"
	}
}

// Policy decides what happens to artifacts whose target already exists.
type Policy struct {
	// SkipIfExists keeps existing extensible artifacts.
	SkipIfExists bool
	// Force overwrites existing extensible artifacts, whatever SkipIfExists says.
	Force bool
}

// Decide returns the action for an artifact of the given kind. For
// migrations, exists reports whether a migration of the entity is already
// present under any version.
//
//	target absent                        create
//	base, present                        overwrite
//	extensible, present, force           overwrite
//	extensible, present, skip-if-exists  skip
//	extensible, present, otherwise       overwrite
//	migration, present                   skip
func (p Policy) Decide(k Kind, exists bool) Action {
	switch {
	case !exists:
		return ActionCreate
	case k == KindMigration:
		return ActionSkip
	case k == KindBase, p.Force:
		return ActionOverwrite
	case p.SkipIfExists:
		return ActionSkip
	default:
		return ActionOverwrite
	}
}

// reason explains a decision in log records and reports.
func (p Policy) reason(k Kind, a Action) string {
	switch {
	case a == ActionCreate:
		return "absent"
	case k == KindMigration:
		return "migration exists"
	case k == KindBase:
		return "generator owned"
	case p.Force:
		return "forced"
	case a == ActionSkip:
		return "skip if exists"
	default:
		return "default mode"
	}
}
