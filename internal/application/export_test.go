package application

import "time"

// SetClock replaces the clock used to stamp successful pushes.
func (s *SyncService) SetClock(now func() time.Time) {
	s.now = now
}

// SetNameGenerator replaces the archive file name generator.
func (s *ArchiveService) SetNameGenerator(newName func() string) {
	s.newName = newName
}
