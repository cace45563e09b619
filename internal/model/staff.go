package model

type Staff struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	PasswordHash   string `json:"-"`
	Name           string `json:"name"`
	Active         bool   `json:"active"`
	LoginCount     int    `json:"login_count"`
	LoginFailCount int    `json:"login_fail_count"`
	DateSeen       int64  `json:"date_seen"`
	DateFail       int64  `json:"date_fail"`
	DatePassword   int64  `json:"date_password"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}
