package directory

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

// Static is an in-memory employee directory. It is safe for concurrent use and
// can be replaced wholesale with Replace or LoadFile.
type Static struct {
	mu        sync.RWMutex
	employees []domain.Employee
	byID      map[string]int
	byEmail   map[string]int
}

// File is the YAML layout accepted by LoadFile.
type File struct {
	Employees []domain.Employee `yaml:"employees"`
}

// NewStatic returns a directory holding employees, or the built-in sample staff when empty.
func NewStatic(employees ...domain.Employee) *Static {
	if len(employees) == 0 {
		employees = DefaultEmployees()
	}
	s := &Static{}
	s.Replace(employees)
	return s
}

// Replace swaps the directory contents.
func (s *Static) Replace(employees []domain.Employee) {
	byID := make(map[string]int, len(employees))
	byEmail := make(map[string]int, len(employees))
	list := make([]domain.Employee, len(employees))
	copy(list, employees)
	for i, emp := range list {
		byID[strings.ToUpper(emp.ID)] = i
		byEmail[strings.ToLower(emp.Email)] = i
	}

	s.mu.Lock()
	s.employees, s.byID, s.byEmail = list, byID, byEmail
	s.mu.Unlock()
}

// LoadFile replaces the directory with the employees listed in a YAML file.
func (s *Static) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse directory %s: %w", path, err)
	}
	if len(f.Employees) == 0 {
		return fmt.Errorf("directory %s lists no employees", path)
	}
	for i, emp := range f.Employees {
		if emp.ID == "" || emp.Name == "" {
			return fmt.Errorf("directory %s: entry %d needs employee_id and name", path, i)
		}
	}
	s.Replace(f.Employees)
	return nil
}

// LookupEmployee resolves an employee id (any case), then an exact email, then the first
// employee whose name or email contains identifier.
func (s *Static) LookupEmployee(_ context.Context, identifier string) (*domain.Employee, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier != "" {
		s.mu.RLock()
		defer s.mu.RUnlock()

		if i, ok := s.byID[strings.ToUpper(identifier)]; ok {
			emp := s.employees[i]
			return &emp, nil
		}
		needle := strings.ToLower(identifier)
		if i, ok := s.byEmail[needle]; ok {
			emp := s.employees[i]
			return &emp, nil
		}
		for _, emp := range s.employees {
			if strings.Contains(strings.ToLower(emp.Name), needle) || strings.Contains(strings.ToLower(emp.Email), needle) {
				return &emp, nil
			}
		}
	}
	return nil, errorutil.NewNotFound("employee", map[string]any{"identifier": identifier})
}

// All returns every employee in directory order.
func (s *Static) All() []domain.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Employee{}, s.employees...)
}

// ByDepartment returns employees whose department equals department, ignoring case.
func (s *Static) ByDepartment(department string) []domain.Employee {
	return s.filter(func(emp domain.Employee) bool {
		return strings.EqualFold(emp.Department, department)
	})
}

// Search matches query against name, email, department and title.
func (s *Static) Search(query string) []domain.Employee {
	q := strings.ToLower(query)
	return s.filter(func(emp domain.Employee) bool {
		return strings.Contains(strings.ToLower(emp.Name), q) ||
			strings.Contains(strings.ToLower(emp.Email), q) ||
			strings.Contains(strings.ToLower(emp.Department), q) ||
			strings.Contains(strings.ToLower(emp.Title), q)
	})
}

// Manager returns the directory record of the employee's manager.
func (s *Static) Manager(ctx context.Context, identifier string) (*domain.Employee, error) {
	emp, err := s.LookupEmployee(ctx, identifier)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, candidate := range s.employees {
		if candidate.Name == emp.Manager {
			return &candidate, nil
		}
	}
	return nil, errorutil.NewNotFound("manager", map[string]any{"employee_id": emp.ID, "manager": emp.Manager})
}

// Validate reports whether id is a known employee id.
func (s *Static) Validate(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[strings.ToUpper(id)]
	return ok
}

func (s *Static) filter(keep func(domain.Employee) bool) []domain.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Employee{}
	for _, emp := range s.employees {
		if keep(emp) {
			out = append(out, emp)
		}
	}
	return out
}
