package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/mintrail/mintrail/domain/entity"
)

var (
	ErrEventInvalid = errors.New("event failed validation")
)

// EventRepository is the append-only, organization-scoped ledger of
// distribution events. Records are immutable: there is no update or delete.
type EventRepository interface {
	// Append inserts one record. The store assigns CreatedAt itself and
	// writes it back onto the event; any caller-populated value is ignored.
	Append(ctx context.Context, event *entity.DistributionEvent) error

	// ListByOrg returns events for one organization ordered by CreatedAt
	// descending. Bounds are inclusive instants; nil means unbounded on that
	// side. Scoping by orgID is enforced here, at the query boundary, not
	// left to the storage layer.
	ListByOrg(ctx context.Context, orgID string, from, to *time.Time) ([]*entity.DistributionEvent, error)
}
