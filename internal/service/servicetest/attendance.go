package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/office-attendance-go/internal/domain/user"
)

// AttendanceRepo is an in-memory attendance.AttendanceRepository enforcing
// one record per (user, day).
type AttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
	users   *UserRepo

	// HideExisting makes GetByUserAndDate miss once, simulating a
	// concurrent check-in that lands between the pre-check and the insert.
	HideExisting bool
}

func NewAttendanceRepo(users *UserRepo) *AttendanceRepo {
	return &AttendanceRepo{records: make(map[string]attendance.Attendance), users: users}
}

// Put stores a record as-is, assigning an ID when missing.
func (r *AttendanceRepo) Put(a attendance.Attendance) attendance.Attendance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = NewID()
	}
	r.records[a.ID] = a
	return a
}

// Len is the number of stored records.
func (r *AttendanceRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *AttendanceRepo) find(userID string, date time.Time) (attendance.Attendance, bool) {
	for _, a := range r.records {
		if a.UserID == userID && a.Date.Equal(date) {
			return a, true
		}
	}
	return attendance.Attendance{}, false
}

func (r *AttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.find(a.UserID, a.Date); ok {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	a.ID = NewID()
	a.CreatedAt = a.CheckInTime
	a.UpdatedAt = a.CheckInTime
	r.records[a.ID] = a
	return a, nil
}

func (r *AttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.HideExisting {
		r.HideExisting = false
		return nil, nil
	}
	a, ok := r.find(userID, date)
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AttendanceRepo) CheckOut(ctx context.Context, id string, checkOut time.Time, workHours float64) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok || a.CheckOutTime != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	// Mirrors the check_out_time >= check_in_time table constraint.
	if checkOut.Before(a.CheckInTime) {
		return attendance.Attendance{}, attendance.ErrCheckOutBeforeIn
	}
	a.CheckOutTime = &checkOut
	a.WorkHours = workHours
	a.UpdatedAt = checkOut
	r.records[id] = a
	return a, nil
}

func (r *AttendanceRepo) byUser(userID string, keep func(attendance.Attendance) bool) []attendance.Attendance {
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.UserID == userID && keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func inRange(a attendance.Attendance, from, to time.Time) bool {
	return !a.Date.Before(from) && !a.Date.After(to)
}

func (r *AttendanceRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]attendance.Attendance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.byUser(userID, func(attendance.Attendance) bool { return true })
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *AttendanceRepo) ListByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byUser(userID, func(a attendance.Attendance) bool { return inRange(a, from, to) }), nil
}

func (r *AttendanceRepo) AggregateByUser(ctx context.Context, userID string, from, to time.Time) (attendance.Aggregate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var agg attendance.Aggregate
	for _, a := range r.byUser(userID, func(a attendance.Attendance) bool { return inRange(a, from, to) }) {
		agg.PresentDays++
		if a.IsLate {
			agg.LateDays++
		}
		agg.TotalWorkHours += a.WorkHours
	}
	return agg, nil
}

func (r *AttendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range r.records {
		if a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckInTime.Before(out[j].CheckInTime) })
	return out, nil
}

func (r *AttendanceRepo) EmployeeTotalsInRange(ctx context.Context, from, to time.Time) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	days := make(map[time.Time]struct{})
	for _, a := range r.records {
		if !inRange(a, from, to) {
			continue
		}
		if r.users != nil {
			u, err := r.users.GetByID(ctx, a.UserID)
			if err != nil || u.Role != user.RoleEmployee || !u.IsActive {
				continue
			}
		}
		n++
		days[a.Date] = struct{}{}
	}
	return n, int64(len(days)), nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
