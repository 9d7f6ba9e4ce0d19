package app

import "fmt"

const endpointKey = "current_endpoint"

// EndpointStore remembers which of the two fixed base URLs last worked.
// The value is an optimization hint, not a correctness-bearing fact: losing
// it only costs one extra failed attempt, so every persistence error here is
// swallowed after logging.
type EndpointStore struct {
	Primary   string
	Alternate string

	kv     KVStore
	logger *Logger
}

func NewEndpointStore(kv KVStore, logger *Logger, primary, alternate string) *EndpointStore {
	if primary == "" {
		primary = DefaultPrimaryURL
	}
	if alternate == "" {
		alternate = DefaultAlternateURL
	}
	return &EndpointStore{
		Primary:   NormalizeBaseURL(primary),
		Alternate: NormalizeBaseURL(alternate),
		kv:        kv,
		logger:    logger,
	}
}

// Current never fails. Anything other than a stored member of the pair
// degrades to the primary.
func (s *EndpointStore) Current() string {
	if s.kv != nil {
		if v, ok := s.kv.Get(endpointKey); ok {
			if v == s.Primary || v == s.Alternate {
				return v
			}
		}
	}
	return s.Primary
}

// Remember persists url as the current endpoint, best effort.
func (s *EndpointStore) Remember(url string) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Set(endpointKey, url); err != nil {
		s.logger.Warn("endpoint store write failed", map[string]interface{}{
			"endpoint": url,
			"error":    fmt.Sprintf("%v", err),
		})
	}
}

// Other returns the member of the pair that url is not. An unrecognized url
// maps to the primary.
func (s *EndpointStore) Other(url string) string {
	if url == s.Primary {
		return s.Alternate
	}
	return s.Primary
}
