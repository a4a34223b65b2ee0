package plan

import (
	"github.com/viant/fluxplan/policy"
	"github.com/viant/fluxplan/service/meta"
)

type Option func(*Service)

// WithMetaService sets the service used to fetch plan documents.
func WithMetaService(metaService *meta.Service) Option {
	return func(s *Service) {
		s.metaService = metaService
	}
}

// WithDefaultPolicy sets the policy assigned to plans that do not declare one.
func WithDefaultPolicy(mode policy.Mode) Option {
	return func(s *Service) {
		s.defaultPolicy = mode
	}
}
