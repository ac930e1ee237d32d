package services

import (
	"filmgrid/internal/catalog"
	"filmgrid/internal/domain"
	"filmgrid/internal/repos"
)

type UserService struct {
	Users    *repos.UserRepo
	PageSize int
}

// Table searches users by e-mail and name, optionally narrowed to one role.
func (s *UserService) Table(text, role string, page int) (catalog.Page[domain.User], error) {
	all, err := s.Users.List()
	if err != nil {
		return catalog.Page[domain.User]{}, err
	}
	pipelineRuns.WithLabelValues("users").Inc()
	return catalog.FilterAndPaginate(all, catalog.Query{
		Text:         text,
		SearchFields: []domain.Field{domain.FieldEmail, domain.FieldName},
		Filters:      map[domain.Field]string{domain.FieldRole: role},
		PageSize:     s.PageSize,
		Page:         page,
	}), nil
}
