package resource

import "github.com/curator-io/curator/pkg/docstore"

// Status is the visibility lifecycle state of an entity.
// Inactive and Active are interchangeable through Activate/Deactivate;
// Deleted is terminal under the standard API.
type Status int

const (
	StatusInactive Status = 0
	StatusActive   Status = 1
	StatusDeleted  Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusActive:
		return "active"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// defaultVisibility is the status predicate applied to every default read:
// inactive and active entities are visible, deleted entities are not.
func defaultVisibility() docstore.In {
	return docstore.In{Values: []any{int(StatusInactive), int(StatusActive)}}
}
