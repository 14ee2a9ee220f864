package ratelimit

import (
	"fmt"
	"time"

	"github.com/fieldops/apigate/pkg/config"
)

const (
	ClassAuth             = "auth"
	ClassAPI              = "api"
	ClassHeavy            = "heavy"
	ClassSearch           = "search"
	ClassFinancial        = "financial"
	ClassCompanyAggregate = "company_aggregate"
)

// Class is a named rate-limit policy applied to a category of endpoints.
// Immutable after startup.
type Class struct {
	Name        string
	Window      time.Duration
	MaxRequests int64
	FailClosed  bool
}

// ClassSet is the fixed, process-wide table of limit classes.
type ClassSet struct {
	classes map[string]Class
}

func NewClassSet(cfg config.LimitsConfig) (*ClassSet, error) {
	classes := make(map[string]Class, len(cfg.Classes))
	for name, c := range cfg.Classes {
		if c.Window <= 0 {
			return nil, fmt.Errorf("limit class %q: window must be positive", name)
		}
		if c.MaxRequests <= 0 {
			return nil, fmt.Errorf("limit class %q: max_requests must be positive", name)
		}
		classes[name] = Class{
			Name:        name,
			Window:      c.Window,
			MaxRequests: c.MaxRequests,
			FailClosed:  c.FailClosed,
		}
	}
	return &ClassSet{classes: classes}, nil
}

func (s *ClassSet) Get(name string) (Class, error) {
	class, ok := s.classes[name]
	if !ok {
		return Class{}, fmt.Errorf("unknown limit class %q", name)
	}
	return class, nil
}
