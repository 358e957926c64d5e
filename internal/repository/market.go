package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository/dao"
)

var (
	ErrVendorNotFound      = dao.ErrVendorNotFound
	ErrAttendanceNotFound  = dao.ErrAttendanceNotFound
	ErrDuplicateAttendance = dao.ErrDuplicateAttendance
	ErrMarketDateNotFound  = dao.ErrMarketDateNotFound
)

type MarketDAO interface {
	ListVendors(ctx context.Context) ([]dao.Vendor, error)
	FindVendorByID(ctx context.Context, id uint) (dao.Vendor, error)
	InsertVendor(ctx context.Context, vendor dao.Vendor) (dao.Vendor, error)
	InsertVendors(ctx context.Context, vendors []dao.Vendor) (int, error)
	FindAttendanceBetween(ctx context.Context, from, to time.Time) ([]dao.MarketAttendance, error)
	CountAttendanceBetween(ctx context.Context, from, to time.Time) (int64, error)
	FindAttendanceByID(ctx context.Context, id uint) (dao.MarketAttendance, error)
	InsertAttendance(ctx context.Context, record dao.MarketAttendance) (dao.MarketAttendance, error)
	DeleteAttendance(ctx context.Context, id uint) error
	ListStallLayouts(ctx context.Context, limit int) ([]dao.StallLayout, error)
	ListPOIs(ctx context.Context, limit int) ([]dao.POI, error)
	UpsertStallLayouts(ctx context.Context, layouts []dao.StallLayout) (int, error)
	UpsertPOIs(ctx context.Context, pois []dao.POI) (int, error)
	ListMarketDates(ctx context.Context) ([]dao.MarketDate, error)
	ListMarketDatesBetween(ctx context.Context, from, to time.Time) ([]dao.MarketDate, error)
	FirstMarketDateFrom(ctx context.Context, from time.Time) (dao.MarketDate, error)
	LastMarketDateBefore(ctx context.Context, before time.Time) (dao.MarketDate, error)
	FirstMarketDate(ctx context.Context) (dao.MarketDate, error)
	UpsertMarketDates(ctx context.Context, dates []dao.MarketDate) (int, error)
}

type MarketRepository struct {
	dao MarketDAO
}

func NewMarketRepository(dao MarketDAO) *MarketRepository {
	return &MarketRepository{
		dao: dao,
	}
}

func (r *MarketRepository) vendorDaoToDomain(v dao.Vendor) domain.Vendor {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}

	return domain.Vendor{
		ID:           v.ID,
		Name:         v.Name,
		VendorType:   v.VendorType,
		Description:  v.Description,
		Website:      v.Website,
		Tags:         tags,
		DefaultStall: v.DefaultStall,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func (r *MarketRepository) vendorDomainToDao(v domain.Vendor) dao.Vendor {
	return dao.Vendor{
		ID:           v.ID,
		Name:         v.Name,
		VendorType:   v.VendorType,
		Description:  v.Description,
		Website:      v.Website,
		Tags:         v.Tags,
		DefaultStall: v.DefaultStall,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func (r *MarketRepository) attendanceDaoToDomain(a dao.MarketAttendance) domain.AttendanceRecord {
	record := domain.AttendanceRecord{
		ID:         a.ID,
		MarketDate: a.MarketDate.UTC(),
		StallID:    a.StallID,
	}

	if a.VendorID != nil {
		record.VendorID = *a.VendorID
	}

	if a.Vendor != nil && a.Vendor.ID != 0 {
		vendor := r.vendorDaoToDomain(*a.Vendor)
		record.Vendor = &vendor
	}

	return record
}

func (r *MarketRepository) attendanceDomainToDao(a domain.AttendanceRecord) dao.MarketAttendance {
	record := dao.MarketAttendance{
		ID:         a.ID,
		MarketDate: a.MarketDate,
		StallID:    a.StallID,
	}

	if a.VendorID != 0 {
		vendorID := a.VendorID
		record.VendorID = &vendorID
	}

	return record
}

func (r *MarketRepository) layoutDaoToDomain(l dao.StallLayout) domain.StallLayout {
	return domain.StallLayout{
		ID:          l.ID,
		StallID:     l.StallID,
		Coordinates: domain.Coordinates{Lng: l.Lng, Lat: l.Lat},
	}
}

func (r *MarketRepository) poiDaoToDomain(p dao.POI) domain.POI {
	return domain.POI{
		ID:          p.ID,
		Title:       p.Title,
		POIType:     domain.POIType(p.POIType),
		Description: p.Description,
		Coordinates: domain.Coordinates{Lng: p.Lng, Lat: p.Lat},
	}
}

func (r *MarketRepository) marketDateDaoToDomain(d dao.MarketDate) domain.MarketDate {
	return domain.MarketDate{
		ID:    d.ID,
		Date:  d.Date.UTC(),
		Title: d.Title,
	}
}

func (r *MarketRepository) marketDatesDaoToDomain(dates []dao.MarketDate) []domain.MarketDate {
	domainDates := make([]domain.MarketDate, len(dates))
	for i, d := range dates {
		domainDates[i] = r.marketDateDaoToDomain(d)
	}
	return domainDates
}

func (r *MarketRepository) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := r.dao.ListVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListVendors -> %w", err)
	}

	domainVendors := make([]domain.Vendor, len(vendors))
	for i, v := range vendors {
		domainVendors[i] = r.vendorDaoToDomain(v)
	}

	return domainVendors, nil
}

func (r *MarketRepository) FindVendorByID(ctx context.Context, id uint) (domain.Vendor, error) {
	vendor, err := r.dao.FindVendorByID(ctx, id)
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("r.dao.FindVendorByID -> %w", err)
	}

	return r.vendorDaoToDomain(vendor), nil
}

func (r *MarketRepository) CreateVendor(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error) {
	created, err := r.dao.InsertVendor(ctx, r.vendorDomainToDao(vendor))
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("r.dao.InsertVendor -> %w", err)
	}

	return r.vendorDaoToDomain(created), nil
}

func (r *MarketRepository) CreateVendors(ctx context.Context, vendors []domain.Vendor) (int, error) {
	daoVendors := make([]dao.Vendor, len(vendors))
	for i, v := range vendors {
		daoVendors[i] = r.vendorDomainToDao(v)
	}

	n, err := r.dao.InsertVendors(ctx, daoVendors)
	if err != nil {
		return 0, fmt.Errorf("r.dao.InsertVendors -> %w", err)
	}

	return n, nil
}

func (r *MarketRepository) FindAttendanceBetween(ctx context.Context, from, to time.Time) ([]domain.AttendanceRecord, error) {
	records, err := r.dao.FindAttendanceBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAttendanceBetween -> %w", err)
	}

	domainRecords := make([]domain.AttendanceRecord, len(records))
	for i, a := range records {
		domainRecords[i] = r.attendanceDaoToDomain(a)
	}

	return domainRecords, nil
}

func (r *MarketRepository) CountAttendanceBetween(ctx context.Context, from, to time.Time) (int64, error) {
	n, err := r.dao.CountAttendanceBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountAttendanceBetween -> %w", err)
	}

	return n, nil
}

func (r *MarketRepository) CreateAttendance(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	created, err := r.dao.InsertAttendance(ctx, r.attendanceDomainToDao(record))
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("r.dao.InsertAttendance -> %w", err)
	}

	found, err := r.dao.FindAttendanceByID(ctx, created.ID)
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("r.dao.FindAttendanceByID -> %w", err)
	}

	return r.attendanceDaoToDomain(found), nil
}

// CreateAttendances inserts records one by one and skips those that already exist.
func (r *MarketRepository) CreateAttendances(ctx context.Context, records []domain.AttendanceRecord) (int, int, error) {
	inserted, duplicates := 0, 0
	for _, record := range records {
		_, err := r.dao.InsertAttendance(ctx, r.attendanceDomainToDao(record))
		if err != nil {
			if errors.Is(err, dao.ErrDuplicateAttendance) {
				duplicates++
				continue
			}
			return inserted, duplicates, fmt.Errorf("r.dao.InsertAttendance -> %w", err)
		}
		inserted++
	}

	return inserted, duplicates, nil
}

func (r *MarketRepository) DeleteAttendance(ctx context.Context, id uint) error {
	if err := r.dao.DeleteAttendance(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteAttendance -> %w", err)
	}

	return nil
}

func (r *MarketRepository) ListStallLayouts(ctx context.Context, limit int) ([]domain.StallLayout, error) {
	layouts, err := r.dao.ListStallLayouts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListStallLayouts -> %w", err)
	}

	domainLayouts := make([]domain.StallLayout, len(layouts))
	for i, l := range layouts {
		domainLayouts[i] = r.layoutDaoToDomain(l)
	}

	return domainLayouts, nil
}

func (r *MarketRepository) ListPOIs(ctx context.Context, limit int) ([]domain.POI, error) {
	pois, err := r.dao.ListPOIs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListPOIs -> %w", err)
	}

	domainPOIs := make([]domain.POI, len(pois))
	for i, p := range pois {
		domainPOIs[i] = r.poiDaoToDomain(p)
	}

	return domainPOIs, nil
}

func (r *MarketRepository) SaveStallLayouts(ctx context.Context, layouts []domain.StallLayout) (int, error) {
	daoLayouts := make([]dao.StallLayout, len(layouts))
	for i, l := range layouts {
		daoLayouts[i] = dao.StallLayout{
			StallID: l.StallID,
			Lng:     l.Coordinates.Lng,
			Lat:     l.Coordinates.Lat,
		}
	}

	n, err := r.dao.UpsertStallLayouts(ctx, daoLayouts)
	if err != nil {
		return 0, fmt.Errorf("r.dao.UpsertStallLayouts -> %w", err)
	}

	return n, nil
}

func (r *MarketRepository) SavePOIs(ctx context.Context, pois []domain.POI) (int, error) {
	daoPOIs := make([]dao.POI, len(pois))
	for i, p := range pois {
		daoPOIs[i] = dao.POI{
			Title:       p.Title,
			POIType:     string(p.POIType),
			Description: p.Description,
			Lng:         p.Coordinates.Lng,
			Lat:         p.Coordinates.Lat,
		}
	}

	n, err := r.dao.UpsertPOIs(ctx, daoPOIs)
	if err != nil {
		return 0, fmt.Errorf("r.dao.UpsertPOIs -> %w", err)
	}

	return n, nil
}

func (r *MarketRepository) ListMarketDates(ctx context.Context) ([]domain.MarketDate, error) {
	dates, err := r.dao.ListMarketDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListMarketDates -> %w", err)
	}

	return r.marketDatesDaoToDomain(dates), nil
}

func (r *MarketRepository) ListMarketDatesBetween(ctx context.Context, from, to time.Time) ([]domain.MarketDate, error) {
	dates, err := r.dao.ListMarketDatesBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListMarketDatesBetween -> %w", err)
	}

	return r.marketDatesDaoToDomain(dates), nil
}

func (r *MarketRepository) FirstMarketDateFrom(ctx context.Context, from time.Time) (domain.MarketDate, error) {
	date, err := r.dao.FirstMarketDateFrom(ctx, from)
	if err != nil {
		return domain.MarketDate{}, fmt.Errorf("r.dao.FirstMarketDateFrom -> %w", err)
	}

	return r.marketDateDaoToDomain(date), nil
}

func (r *MarketRepository) LastMarketDateBefore(ctx context.Context, before time.Time) (domain.MarketDate, error) {
	date, err := r.dao.LastMarketDateBefore(ctx, before)
	if err != nil {
		return domain.MarketDate{}, fmt.Errorf("r.dao.LastMarketDateBefore -> %w", err)
	}

	return r.marketDateDaoToDomain(date), nil
}

func (r *MarketRepository) FirstMarketDate(ctx context.Context) (domain.MarketDate, error) {
	date, err := r.dao.FirstMarketDate(ctx)
	if err != nil {
		return domain.MarketDate{}, fmt.Errorf("r.dao.FirstMarketDate -> %w", err)
	}

	return r.marketDateDaoToDomain(date), nil
}

func (r *MarketRepository) SaveMarketDates(ctx context.Context, dates []domain.MarketDate) (int, error) {
	daoDates := make([]dao.MarketDate, len(dates))
	for i, d := range dates {
		daoDates[i] = dao.MarketDate{
			Date:  domain.StartOfDay(d.Date),
			Title: d.Title,
		}
	}

	n, err := r.dao.UpsertMarketDates(ctx, daoDates)
	if err != nil {
		return 0, fmt.Errorf("r.dao.UpsertMarketDates -> %w", err)
	}

	return n, nil
}
