package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

var ErrMissingColumn = errors.New("missing required column")

type Store interface {
	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	CreateVendors(ctx context.Context, vendors []domain.Vendor) (int, error)
	CreateAttendances(ctx context.Context, records []domain.AttendanceRecord) (int, int, error)
	SaveStallLayouts(ctx context.Context, layouts []domain.StallLayout) (int, error)
	SavePOIs(ctx context.Context, pois []domain.POI) (int, error)
	SaveMarketDates(ctx context.Context, dates []domain.MarketDate) (int, error)
}

// Result counts what an import did. Skipped rows were malformed; duplicates
// already existed.
type Result struct {
	Inserted   int `json:"inserted"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

// Importer loads seed data exported from the market's spreadsheets and
// mapping tools.
type Importer struct {
	store Store
}

func New(store Store) *Importer {
	return &Importer{
		store: store,
	}
}

// Kinds lists the accepted import kinds.
var Kinds = []string{"vendors", "attendance", "dates", "stalls", "pois"}

func (im *Importer) Import(ctx context.Context, kind string, r io.Reader) (Result, error) {
	switch kind {
	case "vendors":
		return im.Vendors(ctx, r)
	case "attendance":
		return im.Attendance(ctx, r)
	case "dates":
		return im.Dates(ctx, r)
	case "stalls":
		return im.Stalls(ctx, r)
	case "pois":
		return im.POIs(ctx, r)
	default:
		return Result{}, fmt.Errorf("unknown import kind %q, want one of %s", kind, strings.Join(Kinds, ", "))
	}
}

// Vendors reads name, vendor_type, description, website, tags, default_stall.
// Tags are separated by semicolons.
func (im *Importer) Vendors(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := readCSV(r, "name")
	if err != nil {
		return Result{}, err
	}

	var res Result
	vendors := make([]domain.Vendor, 0, len(rows))
	for _, row := range rows {
		name := row.get("name")
		if name == "" {
			res.Skipped++
			continue
		}

		vendors = append(vendors, domain.Vendor{
			Name:         name,
			VendorType:   row.get("vendor_type"),
			Description:  row.get("description"),
			Website:      row.get("website"),
			Tags:         splitTags(row.get("tags")),
			DefaultStall: domain.NormalizeStallID(row.get("default_stall")),
		})
	}

	if len(vendors) > 0 {
		n, err := im.store.CreateVendors(ctx, vendors)
		if err != nil {
			return res, fmt.Errorf("im.store.CreateVendors -> %w", err)
		}
		res.Inserted = n
	}

	logResult("vendors", res)
	return res, nil
}

// Attendance reads vendor, date, stall. Vendors are matched by name, ignoring
// case. An empty stall falls back to the vendor's default stall.
func (im *Importer) Attendance(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := readCSV(r, "vendor", "date")
	if err != nil {
		return Result{}, err
	}

	vendors, err := im.store.ListVendors(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("im.store.ListVendors -> %w", err)
	}
	byName := make(map[string]domain.Vendor, len(vendors))
	for _, v := range vendors {
		byName[strings.ToLower(strings.TrimSpace(v.Name))] = v
	}

	var res Result
	records := make([]domain.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		vendor, ok := byName[strings.ToLower(row.get("vendor"))]
		if !ok {
			zap.L().Warn("attendance row skipped, unknown vendor", zap.Int("line", row.line), zap.String("vendor", row.get("vendor")))
			res.Skipped++
			continue
		}

		date, err := domain.ParseDay(row.get("date"))
		if err != nil {
			zap.L().Warn("attendance row skipped, bad date", zap.Int("line", row.line), zap.String("date", row.get("date")))
			res.Skipped++
			continue
		}

		stallID := domain.NormalizeStallID(row.get("stall"))
		if stallID == "" {
			stallID = domain.NormalizeStallID(vendor.DefaultStall)
		}
		if stallID == "" {
			res.Skipped++
			continue
		}

		records = append(records, domain.AttendanceRecord{
			VendorID:   vendor.ID,
			MarketDate: date,
			StallID:    stallID,
		})
	}

	if len(records) > 0 {
		inserted, duplicates, err := im.store.CreateAttendances(ctx, records)
		res.Inserted, res.Duplicates = inserted, duplicates
		if err != nil {
			return res, fmt.Errorf("im.store.CreateAttendances -> %w", err)
		}
	}

	logResult("attendance", res)
	return res, nil
}

// Dates reads date and an optional title. A repeated date keeps its last row.
func (im *Importer) Dates(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := readCSV(r, "date")
	if err != nil {
		return Result{}, err
	}

	var res Result
	dates := make([]domain.MarketDate, 0, len(rows))
	for _, row := range rows {
		date, err := domain.ParseDay(row.get("date"))
		if err != nil {
			res.Skipped++
			continue
		}
		dates = append(dates, domain.MarketDate{Date: date, Title: row.get("title")})
	}

	dates, dropped := lastByKey(dates, func(d domain.MarketDate) string {
		return domain.FormatDay(d.Date)
	})
	res.Skipped += dropped

	if len(dates) > 0 {
		n, err := im.store.SaveMarketDates(ctx, dates)
		if err != nil {
			return res, fmt.Errorf("im.store.SaveMarketDates -> %w", err)
		}
		res.Inserted = n
	}

	logResult("dates", res)
	return res, nil
}

// Stalls reads a GeoJSON feature collection of points, each with a stallId
// property. Stall ids are free text; a repeated id keeps its last feature.
func (im *Importer) Stalls(ctx context.Context, r io.Reader) (Result, error) {
	fc, err := readFeatures(r)
	if err != nil {
		return Result{}, err
	}

	var res Result
	layouts := make([]domain.StallLayout, 0, len(fc.Features))
	for _, f := range fc.Features {
		point, ok := f.Geometry.(orb.Point)
		stallID := domain.NormalizeStallID(f.Properties.MustString("stallId", ""))
		if !ok || stallID == "" {
			res.Skipped++
			continue
		}

		layouts = append(layouts, domain.StallLayout{
			StallID:     stallID,
			Coordinates: coordinates(point),
		})
	}

	layouts, dropped := lastByKey(layouts, func(l domain.StallLayout) string {
		return l.StallID
	})
	res.Skipped += dropped

	if len(layouts) > 0 {
		n, err := im.store.SaveStallLayouts(ctx, layouts)
		if err != nil {
			return res, fmt.Errorf("im.store.SaveStallLayouts -> %w", err)
		}
		res.Inserted = n
	}

	logResult("stalls", res)
	return res, nil
}

// POIs reads a GeoJSON feature collection of points with title, poiType and
// description properties.
func (im *Importer) POIs(ctx context.Context, r io.Reader) (Result, error) {
	fc, err := readFeatures(r)
	if err != nil {
		return Result{}, err
	}

	var res Result
	pois := make([]domain.POI, 0, len(fc.Features))
	for _, f := range fc.Features {
		point, ok := f.Geometry.(orb.Point)
		title := strings.TrimSpace(f.Properties.MustString("title", ""))
		poiType := strings.TrimSpace(f.Properties.MustString("poiType", ""))
		if !ok || title == "" || poiType == "" {
			res.Skipped++
			continue
		}

		pois = append(pois, domain.POI{
			Title:       title,
			POIType:     domain.POIType(poiType),
			Description: f.Properties.MustString("description", ""),
			Coordinates: coordinates(point),
		})
	}

	pois, dropped := lastByKey(pois, func(p domain.POI) string {
		return p.Title + "\x00" + string(p.POIType)
	})
	res.Skipped += dropped

	if len(pois) > 0 {
		n, err := im.store.SavePOIs(ctx, pois)
		if err != nil {
			return res, fmt.Errorf("im.store.SavePOIs -> %w", err)
		}
		res.Inserted = n
	}

	logResult("pois", res)
	return res, nil
}

type row struct {
	line   int
	fields map[string]string
}

func (r row) get(column string) string {
	return strings.TrimSpace(r.fields[column])
}

func readCSV(r io.Reader, required ...string) ([]row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reader.Read header -> %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, column := range required {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
		}
	}

	var rows []row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reader.Read line %d -> %w", line, err)
		}

		fields := make(map[string]string, len(index))
		for name, i := range index {
			if i < len(record) {
				fields[name] = record[i]
			}
		}
		rows = append(rows, row{line: line, fields: fields})
	}

	return rows, nil
}

func readFeatures(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll -> %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geojson.UnmarshalFeatureCollection -> %w", err)
	}

	return fc, nil
}

func coordinates(p orb.Point) domain.Coordinates {
	return domain.Coordinates{Lng: p.Lon(), Lat: p.Lat()}
}

// lastByKey keeps the last item seen for each key, at the position where the
// key first appeared, and returns how many items it dropped. One upsert
// statement cannot touch the same row twice.
func lastByKey[T any](items []T, key func(T) string) ([]T, int) {
	index := make(map[string]int, len(items))
	kept := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if i, ok := index[k]; ok {
			kept[i] = item
			continue
		}
		index[k] = len(kept)
		kept = append(kept, item)
	}

	return kept, len(items) - len(kept)
}

func splitTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ";") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func logResult(kind string, res Result) {
	zap.L().Info("import finished",
		zap.String("kind", kind),
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped),
		zap.Int("duplicates", res.Duplicates))
}
