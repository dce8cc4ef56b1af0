package model

// Credentials is the username/password pair submitted at registration and login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both fields are present.
func (c *Credentials) Validate() error {
	if blank(c.Username) || c.Password == "" {
		return invalid("please provide username and password")
	}
	return nil
}
