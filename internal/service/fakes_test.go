package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository"
)

var errDBDown = errors.New("connection refused")

func day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeStaticRepo struct {
	layoutCalls atomic.Int32
	poiCalls    atomic.Int32
	failLayouts int32
	delay       time.Duration
	layouts     []domain.StallLayout
	pois        []domain.POI
}

func (f *fakeStaticRepo) ListStallLayouts(_ context.Context, limit int) ([]domain.StallLayout, error) {
	n := f.layoutCalls.Add(1)
	time.Sleep(f.delay)
	if n <= f.failLayouts {
		return nil, errDBDown
	}
	if limit < len(f.layouts) {
		return f.layouts[:limit], nil
	}
	return f.layouts, nil
}

func (f *fakeStaticRepo) ListPOIs(_ context.Context, _ int) ([]domain.POI, error) {
	f.poiCalls.Add(1)
	time.Sleep(f.delay)
	return f.pois, nil
}

// fakeMarketRepo is an in-memory stand-in for the repository layer.
type fakeMarketRepo struct {
	mu         sync.Mutex
	vendors    []domain.Vendor
	attendance []domain.AttendanceRecord
	dates      []domain.MarketDate
	err        error
	countCalls []time.Time
}

func (f *fakeMarketRepo) ListVendors(_ context.Context) ([]domain.Vendor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vendors, nil
}

func (f *fakeMarketRepo) FindVendorByID(_ context.Context, id uint) (domain.Vendor, error) {
	for _, v := range f.vendors {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.Vendor{}, repository.ErrVendorNotFound
}

func (f *fakeMarketRepo) CreateVendor(_ context.Context, vendor domain.Vendor) (domain.Vendor, error) {
	vendor.ID = uint(len(f.vendors) + 1)
	f.vendors = append(f.vendors, vendor)
	return vendor, nil
}

func (f *fakeMarketRepo) FindAttendanceBetween(_ context.Context, from, to time.Time) ([]domain.AttendanceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.AttendanceRecord
	for _, a := range f.attendance {
		if !a.MarketDate.Before(from) && a.MarketDate.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeMarketRepo) CountAttendanceBetween(ctx context.Context, from, to time.Time) (int64, error) {
	f.mu.Lock()
	f.countCalls = append(f.countCalls, from)
	f.mu.Unlock()

	records, err := f.FindAttendanceBetween(ctx, from, to)
	return int64(len(records)), err
}

func (f *fakeMarketRepo) CreateAttendance(_ context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	for _, a := range f.attendance {
		if a.VendorID == record.VendorID && a.StallID == record.StallID && a.MarketDate.Equal(record.MarketDate) {
			return domain.AttendanceRecord{}, repository.ErrDuplicateAttendance
		}
	}
	record.ID = uint(len(f.attendance) + 1)
	f.attendance = append(f.attendance, record)
	return record, nil
}

func (f *fakeMarketRepo) DeleteAttendance(_ context.Context, id uint) error {
	for i, a := range f.attendance {
		if a.ID == id {
			f.attendance = append(f.attendance[:i], f.attendance[i+1:]...)
			return nil
		}
	}
	return repository.ErrAttendanceNotFound
}

func (f *fakeMarketRepo) ListMarketDates(_ context.Context) ([]domain.MarketDate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dates, nil
}

func (f *fakeMarketRepo) ListMarketDatesBetween(_ context.Context, from, to time.Time) ([]domain.MarketDate, error) {
	var out []domain.MarketDate
	for _, d := range f.dates {
		if !d.Date.Before(from) && d.Date.Before(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeMarketRepo) FirstMarketDateFrom(_ context.Context, from time.Time) (domain.MarketDate, error) {
	if f.err != nil {
		return domain.MarketDate{}, f.err
	}
	for _, d := range f.dates {
		if !d.Date.Before(from) {
			return d, nil
		}
	}
	return domain.MarketDate{}, repository.ErrMarketDateNotFound
}

func (f *fakeMarketRepo) LastMarketDateBefore(_ context.Context, before time.Time) (domain.MarketDate, error) {
	for i := len(f.dates) - 1; i >= 0; i-- {
		if f.dates[i].Date.Before(before) {
			return f.dates[i], nil
		}
	}
	return domain.MarketDate{}, repository.ErrMarketDateNotFound
}

func (f *fakeMarketRepo) FirstMarketDate(_ context.Context) (domain.MarketDate, error) {
	if len(f.dates) == 0 {
		return domain.MarketDate{}, repository.ErrMarketDateNotFound
	}
	return f.dates[0], nil
}

type fakeSignupRepo struct {
	mu      sync.Mutex
	signups []domain.Signup
	// read, when set, is called after every FindByID.
	read func()
}

func (f *fakeSignupRepo) Create(_ context.Context, signup domain.Signup) (domain.Signup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	signup.ID = uint(len(f.signups) + 1)
	f.signups = append(f.signups, signup)
	return signup, nil
}

func (f *fakeSignupRepo) FindByID(_ context.Context, id uint) (domain.Signup, error) {
	f.mu.Lock()
	found, err := domain.Signup{}, repository.ErrSignupNotFound
	for _, s := range f.signups {
		if s.ID == id {
			found, err = s, nil
		}
	}
	f.mu.Unlock()

	if f.read != nil {
		f.read()
	}
	return found, err
}

func (f *fakeSignupRepo) Find(_ context.Context, filter repository.SignupFilter) ([]domain.Signup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Signup
	for _, s := range f.signups {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Role != "" && s.Role != filter.Role {
			continue
		}
		if filter.From != nil && s.MarketDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !s.MarketDate.Before(*filter.To) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSignupRepo) SaveReview(_ context.Context, signup domain.Signup) (domain.Signup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, s := range f.signups {
		if s.ID == signup.ID {
			if s.Status != domain.SignupPending {
				return domain.Signup{}, domain.ErrSignupNotPending
			}
			f.signups[i] = signup
			return signup, nil
		}
	}
	return domain.Signup{}, repository.ErrSignupNotFound
}
