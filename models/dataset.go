package models

// Dataset is a snapshot of every collection the advisor reads.
// Lookups treat dangling references as absence, never as an error.
type Dataset struct {
	Employees   []Employee
	Departments []Department
	Tasks       []Task
	Requests    []LeaveRequest
	Balances    []Balance
	Policies    []Policy
}

// EmployeeByID returns the employee with the given id.
func (d Dataset) EmployeeByID(id string) (Employee, bool) {
	for _, e := range d.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

// DepartmentByName returns the department record matching name.
func (d Dataset) DepartmentByName(name string) (Department, bool) {
	for _, dept := range d.Departments {
		if dept.Name == name {
			return dept, true
		}
	}
	return Department{}, false
}

// RequestByID returns the leave request with the given id.
func (d Dataset) RequestByID(id string) (LeaveRequest, bool) {
	for _, r := range d.Requests {
		if r.ID == id {
			return r, true
		}
	}
	return LeaveRequest{}, false
}

// RequestsWithStatus returns requests in the given state, in dataset order.
func (d Dataset) RequestsWithStatus(status RequestStatus) []LeaveRequest {
	var out []LeaveRequest
	for _, r := range d.Requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// BalanceFor returns the employee's balance for the given year. Leave is
// booked against the year it starts in.
func (d Dataset) BalanceFor(employeeID string, year int) (Balance, bool) {
	if i := d.BalanceIndex(employeeID, year); i >= 0 {
		return d.Balances[i], true
	}
	return Balance{}, false
}

// BalanceIndex returns the position of the employee's balance for year, or -1.
func (d Dataset) BalanceIndex(employeeID string, year int) int {
	for i, b := range d.Balances {
		if b.EmployeeID == employeeID && b.Year == year {
			return i
		}
	}
	return -1
}

// PolicyFor picks the policy governing an employee: a department policy
// first, then the most senior level policy the employee qualifies for, then
// the general policy.
func (d Dataset) PolicyFor(e Employee) (Policy, bool) {
	for _, p := range d.Policies {
		if p.Department != "" && p.Department == e.Department {
			return p, true
		}
	}

	var (
		best  Policy
		found bool
	)
	for _, p := range d.Policies {
		if p.Department != "" || p.MinLevel == "" {
			continue
		}
		if p.MinLevel.Rank() <= e.Level.Rank() && (!found || p.MinLevel.Rank() > best.MinLevel.Rank()) {
			best, found = p, true
		}
	}
	if found {
		return best, true
	}

	for _, p := range d.Policies {
		if p.Department == "" && p.MinLevel == "" {
			return p, true
		}
	}
	return Policy{}, false
}

// Clone returns a deep copy so callers may read it while the source mutates.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Employees:   make([]Employee, len(d.Employees)),
		Departments: make([]Department, len(d.Departments)),
		Tasks:       make([]Task, len(d.Tasks)),
		Requests:    make([]LeaveRequest, len(d.Requests)),
		Balances:    append([]Balance(nil), d.Balances...),
		Policies:    make([]Policy, len(d.Policies)),
	}
	for i, e := range d.Employees {
		out.Employees[i] = e.Clone()
	}
	for i, dept := range d.Departments {
		dept.CriticalSkills = append([]string(nil), dept.CriticalSkills...)
		out.Departments[i] = dept
	}
	for i, t := range d.Tasks {
		t.RequiredSkills = append([]string(nil), t.RequiredSkills...)
		out.Tasks[i] = t
	}
	for i, r := range d.Requests {
		out.Requests[i] = r.Clone()
	}
	for i, p := range d.Policies {
		p.BlackoutPeriods = append([]DateRange(nil), p.BlackoutPeriods...)
		out.Policies[i] = p
	}
	return out
}

// Clone returns a copy that shares no slices or pointers with e.
func (e Employee) Clone() Employee {
	e.Skills = append([]string(nil), e.Skills...)
	if e.ManagerID != nil {
		id := *e.ManagerID
		e.ManagerID = &id
	}
	return e
}

// Clone returns a copy that shares no pointers with r.
func (r LeaveRequest) Clone() LeaveRequest {
	if r.ReviewedAt != nil {
		at := *r.ReviewedAt
		r.ReviewedAt = &at
	}
	return r
}
