package contact

import "time"

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type CreateRequest struct {
	Name  string `json:"name" validate:"required,personname"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// UpdateRequest carries a partial update; nil fields are left alone.
type UpdateRequest struct {
	Name  *string `json:"name" validate:"omitnil,personname"`
	Email *string `json:"email" validate:"omitnil,email"`
	Phone *string `json:"phone" validate:"omitnil,min=1"`
}

func (r UpdateRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil
}

type FavoriteRequest struct {
	Favorite *bool `json:"favorite"`
}

// Patch is the set of fields a repository update applies.
type Patch struct {
	Name     *string
	Email    *string
	Phone    *string
	Favorite *bool
}

// Apply merges p into c.
func (p Patch) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Favorite != nil {
		c.Favorite = *p.Favorite
	}
}
