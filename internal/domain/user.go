package domain

// User is a caller's record in the user collection. Company is the caller's
// authorization scope.
type User struct {
	ID      string `bson:"_id" json:"id"`
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Company string `bson:"company" json:"company"`
}

func (u *User) GetID() string   { return u.ID }
func (u *User) SetID(id string) { u.ID = id }

func (u *User) Copy() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
