package game

import (
	"sort"

	"github.com/sketchparty/sketchparty/internal/models"
)

// Rank returns a new slice ordered by score descending. The sort is stable:
// members with equal scores keep their relative input order. The ranking is
// used both for leaderboard updates and for rebuilding the rotation queue.
func Rank(members []*models.RoomMember) []*models.RoomMember {
	ranked := make([]*models.RoomMember, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
