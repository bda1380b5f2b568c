package scheduler

// StatusMap returns a copy of the status of every task in the last run.
func (s *Scheduler) StatusMap() map[string]TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]TaskStatus, len(s.taskStatus))
	for k, v := range s.taskStatus {
		out[k] = v
	}
	return out
}
