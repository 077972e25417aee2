package shared

// BaseAggregateRoot extends BaseEntity with the optimistic-lock version.
// Repositories compare it against the stored row on every write and
// reject stale aggregates with a concurrency conflict.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
}

// NewBaseAggregateRoot creates a base aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
