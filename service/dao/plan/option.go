package plan

import "github.com/viant/afs"

// Option customises the plan service.
type Option func(s *Service)

// WithFS sets the file system used to download plans.
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}
