package services

import (
	"errors"
	"strings"

	"filmgrid/internal/domain"
	"filmgrid/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds = errors.New("invalid email or password")
	ErrNotAdmin = errors.New("account has no admin access")
)

type AuthService struct {
	Users *repos.UserRepo
	// AdminEmails, when non-empty, narrows ADMIN access to these addresses.
	AdminEmails []string
}

// Login checks the credentials and binds sid to the user. Accounts that
// IsAdmin rejects get ErrNotAdmin and no session.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if !s.IsAdmin(u) {
		return u, ErrNotAdmin
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// IsAdmin reports whether u may use the admin panel.
func (s *AuthService) IsAdmin(u *domain.User) bool {
	if u == nil || u.Role != domain.RoleAdmin {
		return false
	}
	if len(s.AdminEmails) == 0 {
		return true
	}
	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, allowed := range s.AdminEmails {
		if allowed == email {
			return true
		}
	}
	return false
}
