package domain

// User is the identity allowed into the dashboard. Users are provisioned out of band;
// the service only reads them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}
