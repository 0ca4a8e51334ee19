package auth

// Service decides who may talk to the bot. An empty allowlist admits everyone.
type Service struct {
	allowedUsers map[int64]struct{}
	adminID      int64
}

func New(initial []int64, adminID int64) *Service {
	s := &Service{allowedUsers: make(map[int64]struct{}, len(initial)), adminID: adminID}
	for _, id := range initial {
		s.allowedUsers[id] = struct{}{}
	}
	if adminID != 0 && len(s.allowedUsers) > 0 {
		s.allowedUsers[adminID] = struct{}{}
	}
	return s
}

func (s *Service) IsAllowed(userID int64) bool {
	if s == nil || len(s.allowedUsers) == 0 {
		return true
	}
	_, ok := s.allowedUsers[userID]
	return ok
}

// IsAdmin is false for everyone when no admin is configured.
func (s *Service) IsAdmin(userID int64) bool {
	return s != nil && s.adminID != 0 && s.adminID == userID
}
