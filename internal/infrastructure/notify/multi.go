package notify

import (
	"context"

	"github.com/google/uuid"
)

type MutualMatchNotifier interface {
	OnMutualMatch(ctx context.Context, pairingID, profileA, profileB uuid.UUID)
}

// Multi fans a mutual match out to several notifiers in order.
type Multi []MutualMatchNotifier

func (m Multi) OnMutualMatch(ctx context.Context, pairingID, profileA, profileB uuid.UUID) {
	for _, n := range m {
		if n != nil {
			n.OnMutualMatch(ctx, pairingID, profileA, profileB)
		}
	}
}
