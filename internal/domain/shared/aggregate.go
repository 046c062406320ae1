package shared

// initialVersion is where every freshly created aggregate starts.
const initialVersion = 1

// AggregateRoot marks an entity as a consistency boundary with optimistic
// locking support.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot embeds BaseEntity and adds the version counter.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the version used for optimistic locking.
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the version and touches the modification
// timestamp. Call on every mutating operation.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.Touch()
}

// NewBaseAggregateRoot builds a root with a fresh identity at the initial
// version.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    initialVersion,
	}
}
