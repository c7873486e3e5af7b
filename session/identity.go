package session

// Identity is the decoded user identity carried by a session. The admin flag
// is reconciled once at response-parse time; consumers never look at the wire
// shape.
type Identity struct {
	UserID   string
	Username string
	Email    string
	IsAdmin  bool
}

// IsSeller reports whether the user may list items for sale. The marketplace
// treats every account as a seller; the backend enforces the real rule on
// seller endpoints.
func (Identity) IsSeller() bool {
	return true
}

// authData is the wire shape of the login response's data field. The backend
// has historically emitted the admin flag either top-level or nested inside
// an optional embedded user object.
type authData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
	User         *struct {
		IsAdmin bool `json:"isAdmin"`
	} `json:"user,omitempty"`
}

// identity reconciles the dual-source admin flag into the canonical field.
func (d authData) identity() Identity {
	isAdmin := d.IsAdmin
	if d.User != nil && d.User.IsAdmin {
		isAdmin = true
	}
	return Identity{
		UserID:   d.UserID,
		Username: d.Username,
		Email:    d.Email,
		IsAdmin:  isAdmin,
	}
}

// Registration holds the fields for creating an account.
type Registration struct {
	Username        string `json:"username"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	Address         string `json:"address,omitempty"`
}
