package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/office-attendance-go/internal/domain/report"
)

// ReportRepo is an in-memory report.ReportRepository enforcing one report
// per (user, day). Reads fill the author and reviewer names from users.
type ReportRepo struct {
	mu      sync.Mutex
	reports map[string]report.DailyReport
	users   *UserRepo
}

func NewReportRepo(users *UserRepo) *ReportRepo {
	return &ReportRepo{reports: make(map[string]report.DailyReport), users: users}
}

// Put stores a report as-is, assigning an ID when missing.
func (r *ReportRepo) Put(dr report.DailyReport) report.DailyReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dr.ID == "" {
		dr.ID = NewID()
	}
	r.reports[dr.ID] = dr
	return r.join(dr)
}

func (r *ReportRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

func (r *ReportRepo) join(dr report.DailyReport) report.DailyReport {
	if r.users == nil {
		return dr
	}
	if u, err := r.users.GetByID(context.Background(), dr.UserID); err == nil {
		dr.AuthorName = u.Name
		dr.AuthorEmail = u.Email
	}
	if dr.ReviewedBy != nil {
		if u, err := r.users.GetByID(context.Background(), *dr.ReviewedBy); err == nil {
			name := u.Name
			dr.ReviewerName = &name
		}
	}
	return dr
}

func (r *ReportRepo) filter(keep func(report.DailyReport) bool) []report.DailyReport {
	var out []report.DailyReport
	for _, dr := range r.reports {
		if keep(dr) {
			out = append(out, r.join(dr))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *ReportRepo) Create(ctx context.Context, dr report.DailyReport) (report.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reports {
		if existing.UserID == dr.UserID && existing.Date.Equal(dr.Date) {
			return report.DailyReport{}, report.ErrDuplicateReport
		}
	}
	dr.ID = NewID()
	dr.CreatedAt = time.Now()
	dr.UpdatedAt = dr.CreatedAt
	r.reports[dr.ID] = dr
	return r.join(dr), nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id string) (report.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dr, ok := r.reports[id]
	if !ok {
		return report.DailyReport{}, report.ErrReportNotFound
	}
	return r.join(dr), nil
}

func (r *ReportRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*report.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dr := range r.reports {
		if dr.UserID == userID && dr.Date.Equal(date) {
			dr = r.join(dr)
			return &dr, nil
		}
	}
	return nil, nil
}

func (r *ReportRepo) Update(ctx context.Context, dr report.DailyReport) (report.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.reports[dr.ID]
	if !ok {
		return report.DailyReport{}, report.ErrReportNotFound
	}
	existing.WorkDone = dr.WorkDone
	existing.Challenges = dr.Challenges
	existing.PlanForTomorrow = dr.PlanForTomorrow
	existing.ProjectsWorkedOn = dr.ProjectsWorkedOn
	existing.HoursWorked = dr.HoursWorked
	existing.Productivity = dr.Productivity
	existing.NeedsManagerReview = dr.NeedsManagerReview
	existing.UpdatedAt = time.Now()
	r.reports[dr.ID] = existing
	return r.join(existing), nil
}

func (r *ReportRepo) Review(ctx context.Context, id, reviewerID, comment string, at time.Time) (report.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dr, ok := r.reports[id]
	if !ok {
		return report.DailyReport{}, report.ErrReportNotFound
	}
	dr.ManagerComments = comment
	dr.ReviewedBy = &reviewerID
	dr.ReviewedAt = &at
	dr.UpdatedAt = at
	r.reports[id] = dr
	return r.join(dr), nil
}

func (r *ReportRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[id]; !ok {
		return report.ErrReportNotFound
	}
	delete(r.reports, id)
	return nil
}

func (r *ReportRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]report.DailyReport, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.filter(func(dr report.DailyReport) bool { return dr.UserID == userID })
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *ReportRepo) ListByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]report.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(dr report.DailyReport) bool {
		return dr.UserID == userID && !dr.Date.Before(from) && !dr.Date.After(to)
	}), nil
}

func (r *ReportRepo) List(ctx context.Context, f report.ListFilter) ([]report.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(dr report.DailyReport) bool {
		if f.Date != nil && !dr.Date.Equal(*f.Date) {
			return false
		}
		return !f.NeedsReview || dr.NeedsManagerReview
	}), nil
}

func (r *ReportRepo) ListByDate(ctx context.Context, date time.Time) ([]report.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(dr report.DailyReport) bool { return dr.Date.Equal(date) }), nil
}

func (r *ReportRepo) CountByUserInRange(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	reports, _ := r.ListByUserInRange(ctx, userID, from, to)
	return int64(len(reports)), nil
}

func (r *ReportRepo) CountPendingReview(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, dr := range r.reports {
		if dr.NeedsManagerReview && !dr.IsReviewed() {
			n++
		}
	}
	return n, nil
}
