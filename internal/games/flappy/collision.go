package flappy

// detectCollision checks the character against the tracking obstacle's
// halves and the screen bounds. Touching the ceiling or the floor counts.
func (s *Simulation) detectCollision() CollisionCause {
	c := s.character.Rect()
	switch {
	case c.Intersects(s.trackTop):
		return CauseTopObstacle
	case c.Intersects(s.trackBot):
		return CauseBottomObstacle
	case c.Top() <= 0:
		return CauseCeiling
	case c.Bottom() >= s.cfg.World.Height:
		return CauseFloor
	}
	return CauseNone
}
