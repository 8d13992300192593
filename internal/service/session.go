package service

import "sync"

// Session holds state that must live for one session and no longer, such as
// "report this diagnostic only once". Tests create a fresh Session per case.
type Session struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewSession() *Session {
	return &Session{seen: map[string]struct{}{}}
}

// Once reports true the first time key is seen in this session.
func (s *Session) Once(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *Session) Reset() {
	s.mu.Lock()
	s.seen = map[string]struct{}{}
	s.mu.Unlock()
}
