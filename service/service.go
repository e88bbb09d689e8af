package service

import (
	"github.com/go-playground/validator/v10"

	"sales-management/logging"
	"sales-management/metrics"
	"sales-management/store"
)

// DefaultNameMaxLength bounds city, store and product names.
const DefaultNameMaxLength = 255

type Service struct {
	store      store.Store
	validator  *validator.Validate
	log        *logging.Logger
	metrics    *metrics.Metrics
	nameMaxLen int
}

type Option func(*Service)

func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithNameMaxLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.nameMaxLen = n
		}
	}
}

func NewService(s store.Store, opts ...Option) *Service {
	svc := &Service{
		store:      s,
		validator:  newValidator(),
		log:        logging.NewNop(),
		nameMaxLen: DefaultNameMaxLength,
	}
	for _, opt := range opts {
		opt(svc)
	}
	svc.log = svc.log.WithComponent("service")
	return svc
}
