package domain

// Customer is the party an invoice is billed to.
type Customer struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}
