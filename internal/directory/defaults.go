package directory

import "github.com/Kiruthika-Mahalingam/help-desk/internal/domain"

// DefaultEmployees returns the built-in sample staff.
func DefaultEmployees() []domain.Employee {
	return []domain.Employee{
		{ID: "EMP001", Name: "John Doe", Email: "john.doe@company.com", Department: "Information Technology", Phone: "+1-555-0101", Manager: "Jane Smith", Location: "Building A, Floor 3", Title: "Software Developer"},
		{ID: "EMP002", Name: "Jane Smith", Email: "jane.smith@company.com", Department: "Information Technology", Phone: "+1-555-0102", Manager: "Bob Johnson", Location: "Building A, Floor 3", Title: "IT Manager"},
		{ID: "EMP003", Name: "Bob Johnson", Email: "bob.johnson@company.com", Department: "Information Technology", Phone: "+1-555-0103", Manager: "CEO", Location: "Building A, Floor 4", Title: "IT Director"},
		{ID: "EMP004", Name: "Alice Brown", Email: "alice.brown@company.com", Department: "Human Resources", Phone: "+1-555-0201", Manager: "Carol Wilson", Location: "Building B, Floor 2", Title: "HR Specialist"},
		{ID: "EMP005", Name: "Carol Wilson", Email: "carol.wilson@company.com", Department: "Human Resources", Phone: "+1-555-0202", Manager: "CEO", Location: "Building B, Floor 2", Title: "HR Manager"},
		{ID: "EMP006", Name: "David Miller", Email: "david.miller@company.com", Department: "Finance", Phone: "+1-555-0301", Manager: "Sarah Davis", Location: "Building C, Floor 1", Title: "Financial Analyst"},
		{ID: "EMP007", Name: "Sarah Davis", Email: "sarah.davis@company.com", Department: "Finance", Phone: "+1-555-0302", Manager: "CEO", Location: "Building C, Floor 1", Title: "Finance Manager"},
		{ID: "EMP008", Name: "Michael Taylor", Email: "michael.taylor@company.com", Department: "Marketing", Phone: "+1-555-0401", Manager: "Lisa Anderson", Location: "Building D, Floor 2", Title: "Marketing Specialist"},
		{ID: "EMP009", Name: "Lisa Anderson", Email: "lisa.anderson@company.com", Department: "Marketing", Phone: "+1-555-0402", Manager: "CEO", Location: "Building D, Floor 2", Title: "Marketing Manager"},
		{ID: "EMP010", Name: "Robert Chen", Email: "robert.chen@company.com", Department: "Operations", Phone: "+1-555-0501", Manager: "Jennifer Lee", Location: "Building E, Floor 1", Title: "Operations Coordinator"},
	}
}
