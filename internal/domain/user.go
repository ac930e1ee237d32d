package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
	Hash  string `db:"password_hash" json:"-"`
	Role  string `db:"role" json:"role"`
}

func (u User) Value(f Field) string {
	switch f {
	case FieldID:
		return u.ID
	case FieldEmail:
		return u.Email
	case FieldName:
		return u.Name
	case FieldRole:
		return u.Role
	}
	return ""
}
