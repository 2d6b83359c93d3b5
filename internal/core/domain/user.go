package domain

// User represents a login of the application in the domain. Users are
// treated as opaque owners of one snapshot each; the finance core never
// looks past the UserID.
type User struct {
	UserID       string `json:"userID"` // Primary Key (e.g., UUID)
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	AuditFields
}
