package domain

// Employee is a directory record for somebody who can submit tickets.
type Employee struct {
	ID         string `json:"employee_id" yaml:"employee_id"`
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Department string `json:"department" yaml:"department"`
	Phone      string `json:"phone" yaml:"phone"`
	Manager    string `json:"manager" yaml:"manager"`
	Location   string `json:"location" yaml:"location"`
	Title      string `json:"title" yaml:"title"`
}
