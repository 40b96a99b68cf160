package config

// RespawnRequired reports whether moving a card from prev to next changes its
// population or the regions bodies were placed in. Such edits need a fresh spawn;
// everything else can be applied to the running simulation in place.
func RespawnRequired(prev, next Simulation) bool {
	if prev.Model != next.Model || prev.Shape != next.Shape || prev.CanvasBounds != next.CanvasBounds {
		return true
	}
	if prev.BallCount != next.BallCount || prev.BallSize != next.BallSize {
		return true
	}
	if prev.InnerBallCount() != next.InnerBallCount() {
		return true
	}
	if (prev.Swarm == nil) != (next.Swarm == nil) ||
		(prev.SST == nil) != (next.SST == nil) ||
		(prev.Vortex == nil) != (next.Vortex == nil) {
		return true
	}
	if prev.Swarm != nil && next.Swarm != nil && prev.Swarm.InnerRadius != next.Swarm.InnerRadius {
		return true
	}
	return false
}
