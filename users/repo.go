package users

// UserRepo is the external collaborator that stores principal records. The
// auth core never sees plaintext secrets at rest, only the stored hash.
type UserRepo interface {
	Upsert(user *User) error
	Delete(email string) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	List(offset, limit int) ([]*User, error)
}
