package dto

import "github.com/Kiruthika-Mahalingam/help-desk/internal/domain"

// EmployeeResponse is a directory record.
type EmployeeResponse = domain.Employee

// EmployeeValidationResponse reports whether an employee id exists in the directory.
type EmployeeValidationResponse struct {
	EmployeeID string `json:"employee_id"`
	Valid      bool   `json:"valid"`
}
