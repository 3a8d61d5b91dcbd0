package domain

// Employee represents the employees table
type Employee struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Age   *int   `json:"age,omitempty" db:"age"`
	Email string `json:"email" db:"email"`
}

// AgeValue returns the age as a driver value, nil when unset.
func (e Employee) AgeValue() interface{} {
	if e.Age == nil {
		return nil
	}
	return int64(*e.Age)
}

// IntPtr is a small helper for building optional ages.
func IntPtr(v int) *int {
	return &v
}
