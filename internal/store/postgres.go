/**
 * @description
 * PostgreSQL backend for the Data Access Layer, built on GORM.
 * Same contract as the MongoDB backend; identifiers are UUIDs and each
 * collection maps to a table of the same name.
 *
 * @dependencies
 * - gorm.io/gorm
 * - github.com/google/uuid
 * - github.com/jackc/pgx/v5/pgconn: error classification
 */

package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/db"
	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/pkg/clock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var _ Store = (*PostgresStore)(nil)

type listingRow struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU          string    `gorm:"column:sku;not null"`
	Title        string    `gorm:"column:title;not null"`
	ImageURL     *string   `gorm:"column:image_url"`
	URL          *string   `gorm:"column:url"`
	Merchant     string    `gorm:"column:merchant;not null"`
	Price        float64   `gorm:"column:price;type:double precision"`
	Currency     string    `gorm:"column:currency;size:3"`
	Rating       *float64  `gorm:"column:rating"`
	TotalReviews *int      `gorm:"column:total_reviews"`
	Availability *string   `gorm:"column:availability"`
	FetchedAt    time.Time `gorm:"column:fetched_at"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (listingRow) TableName() string { return CollectionListing }

type priceHistoryRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU       string    `gorm:"column:sku;not null"`
	Merchant  string    `gorm:"column:merchant;not null"`
	Price     float64   `gorm:"column:price;type:double precision"`
	Currency  string    `gorm:"column:currency;size:3"`
	Timestamp time.Time `gorm:"column:timestamp"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (priceHistoryRow) TableName() string { return CollectionPriceHistory }

type favoriteRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"column:user_id;not null"`
	SKU       string    `gorm:"column:sku;not null"`
	Title     string    `gorm:"column:title"`
	ImageURL  *string   `gorm:"column:image_url"`
	URL       *string   `gorm:"column:url"`
	Merchant  string    `gorm:"column:merchant"`
	Price     float64   `gorm:"column:price;type:double precision"`
	Currency  string    `gorm:"column:currency"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (favoriteRow) TableName() string { return CollectionFavorite }

type searchQueryRow struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Query     string      `gorm:"column:query;not null"`
	UserID    *string     `gorm:"column:user_id"`
	Providers StringArray `gorm:"column:providers;type:text[]"`
	CreatedAt time.Time   `gorm:"column:created_at"`
}

func (searchQueryRow) TableName() string { return CollectionSearchQuery }

// PostgresStore implements Store on PostgreSQL
type PostgresStore struct {
	cfg            *config.Config
	clock          clock.Clock
	connectTimeout time.Duration

	connect singleflight.Group

	mu       sync.Mutex
	gdb      *gorm.DB
	lastErr  error
	failedAt time.Time
}

// NewPostgresStore returns a store that connects on first use
func NewPostgresStore(cfg *config.Config) *PostgresStore {
	return &PostgresStore{cfg: cfg, clock: clock.NewRealClock(), connectTimeout: ConnectTimeout}
}

// database returns the shared handle, connecting and creating tables on first use.
// Same sharing and failure memory as MongoStore.database.
func (s *PostgresStore) database(ctx context.Context) (*gorm.DB, error) {
	s.mu.Lock()
	if s.gdb != nil {
		gdb := s.gdb
		s.mu.Unlock()
		return gdb.WithContext(ctx), nil
	}
	if s.lastErr != nil && s.clock.Now().Sub(s.failedAt) < ConnectRetryAfter {
		err := s.lastErr
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	ch := s.connect.DoChan("connect", func() (interface{}, error) {
		connectCtx, cancel := context.WithTimeout(context.Background(), s.connectTimeout)
		defer cancel()

		gdb, err := s.open(connectCtx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.lastErr, s.failedAt = err, s.clock.Now()
			return nil, err
		}
		s.gdb, s.lastErr = gdb, nil
		return gdb, nil
	})

	select {
	case <-ctx.Done():
		return nil, unavailable(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*gorm.DB).WithContext(ctx), nil
	}
}

func (s *PostgresStore) open(ctx context.Context) (*gorm.DB, error) {
	gdb, err := db.ConnectPostgres(ctx, s.cfg)
	if err != nil {
		return nil, unavailable(err)
	}
	if err := gdb.WithContext(ctx).AutoMigrate(&listingRow{}, &priceHistoryRow{}, &favoriteRow{}, &searchQueryRow{}); err != nil {
		if sqlDB, dbErr := gdb.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, classifyPostgres(err)
	}
	return gdb, nil
}

func (s *PostgresStore) create(ctx context.Context, row interface{}, id uuid.UUID) (string, error) {
	gdb, err := s.database(ctx)
	if err != nil {
		return "", err
	}
	if err := gdb.Create(row).Error; err != nil {
		return "", classifyPostgres(err)
	}
	return id.String(), nil
}

func (s *PostgresStore) CreateListing(ctx context.Context, listing *models.Listing) (string, error) {
	if err := listing.Validate(); err != nil {
		return "", err
	}
	row := &listingRow{
		ID:           uuid.New(),
		SKU:          listing.SKU,
		Title:        listing.Title,
		ImageURL:     listing.ImageURL,
		URL:          listing.URL,
		Merchant:     string(listing.Merchant),
		Price:        listing.Price,
		Currency:     listing.Currency,
		Rating:       listing.Rating,
		TotalReviews: listing.TotalReviews,
		Availability: listing.Availability,
		FetchedAt:    listing.FetchedAt,
		CreatedAt:    s.clock.Now(),
	}
	return s.create(ctx, row, row.ID)
}

func (s *PostgresStore) CreatePriceHistory(ctx context.Context, entry *models.PriceHistory) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}
	row := &priceHistoryRow{
		ID:        uuid.New(),
		SKU:       entry.SKU,
		Merchant:  string(entry.Merchant),
		Price:     entry.Price,
		Currency:  entry.Currency,
		Timestamp: entry.Timestamp,
		CreatedAt: s.clock.Now(),
	}
	return s.create(ctx, row, row.ID)
}

func (s *PostgresStore) CreateSearchQuery(ctx context.Context, query *models.SearchQuery) (string, error) {
	if err := query.Validate(); err != nil {
		return "", err
	}
	row := &searchQueryRow{
		ID:        uuid.New(),
		Query:     query.Query,
		UserID:    query.UserID,
		Providers: StringArray(query.Providers),
		CreatedAt: s.clock.Now(),
	}
	return s.create(ctx, row, row.ID)
}

func (s *PostgresStore) CreateFavorite(ctx context.Context, fav *models.Favorite) (string, error) {
	if err := fav.Validate(); err != nil {
		return "", err
	}
	row := &favoriteRow{
		ID:        uuid.New(),
		UserID:    fav.UserID,
		SKU:       fav.SKU,
		Title:     fav.Title,
		ImageURL:  fav.ImageURL,
		URL:       fav.URL,
		Merchant:  string(fav.Merchant),
		Price:     *fav.Price,
		Currency:  fav.Currency,
		CreatedAt: s.clock.Now(),
	}
	return s.create(ctx, row, row.ID)
}

func (s *PostgresStore) FindListings(ctx context.Context, filter ListingFilter) ([]models.Listing, error) {
	gdb, err := s.database(ctx)
	if err != nil {
		return nil, err
	}

	query := gdb.Model(&listingRow{})
	if filter.SKU != "" {
		query = query.Where("sku = ?", filter.SKU)
	}
	if filter.Merchant != "" {
		query = query.Where("merchant = ?", filter.Merchant)
	}
	query = query.Order("fetched_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []listingRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, classifyPostgres(err)
	}

	out := make([]models.Listing, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *PostgresStore) FindPriceHistory(ctx context.Context, filter HistoryFilter) ([]models.PriceHistory, error) {
	gdb, err := s.database(ctx)
	if err != nil {
		return nil, err
	}

	query := gdb.Where("merchant = ? AND sku = ?", filter.Merchant, filter.SKU).Order("timestamp DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []priceHistoryRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, classifyPostgres(err)
	}

	out := make([]models.PriceHistory, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.PriceHistory{
			ID:        r.ID.String(),
			SKU:       r.SKU,
			Merchant:  models.Merchant(r.Merchant),
			Price:     r.Price,
			Currency:  r.Currency,
			Timestamp: r.Timestamp,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s *PostgresStore) FindFavorites(ctx context.Context, userID string, limit int) ([]models.Favorite, error) {
	gdb, err := s.database(ctx)
	if err != nil {
		return nil, err
	}

	query := gdb.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []favoriteRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, classifyPostgres(err)
	}

	out := make([]models.Favorite, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Favorite{
			ID:        r.ID.String(),
			UserID:    r.UserID,
			SKU:       r.SKU,
			Title:     r.Title,
			ImageURL:  r.ImageURL,
			URL:       r.URL,
			Merchant:  models.Merchant(r.Merchant),
			Price:     models.Float64Ptr(r.Price),
			Currency:  r.Currency,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s *PostgresStore) RecentSearchQueries(ctx context.Context, limit int) ([]models.SearchQuery, error) {
	gdb, err := s.database(ctx)
	if err != nil {
		return nil, err
	}

	query := gdb.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []searchQueryRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, classifyPostgres(err)
	}

	out := make([]models.SearchQuery, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.SearchQuery{
			ID:        r.ID.String(),
			Query:     r.Query,
			UserID:    r.UserID,
			Providers: []string(r.Providers),
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s *PostgresStore) DeleteFavorite(ctx context.Context, id string) (int64, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return 0, ErrInvalidID
	}

	gdb, err := s.database(ctx)
	if err != nil {
		return 0, err
	}

	res := gdb.Where("id = ?", uid).Delete(&favoriteRow{})
	if res.Error != nil {
		return 0, classifyPostgres(res.Error)
	}
	return res.RowsAffected, nil
}

func (s *PostgresStore) Name() string { return s.cfg.DB.Name }

func (s *PostgresStore) Ping(ctx context.Context) error {
	gdb, err := s.database(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return unavailable(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *PostgresStore) Collections(ctx context.Context) ([]string, error) {
	gdb, err := s.database(ctx)
	if err != nil {
		return nil, err
	}
	tables, err := gdb.Migrator().GetTables()
	if err != nil {
		return nil, classifyPostgres(err)
	}
	sort.Strings(tables)
	return tables, nil
}

func (s *PostgresStore) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gdb == nil {
		return nil
	}
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return err
	}
	s.gdb = nil
	return sqlDB.Close()
}

func (r listingRow) toModel() models.Listing {
	return models.Listing{
		ID: r.ID.String(),
		ListingResult: models.ListingResult{
			SKU:          r.SKU,
			Title:        r.Title,
			ImageURL:     r.ImageURL,
			URL:          r.URL,
			Merchant:     models.Merchant(r.Merchant),
			Price:        r.Price,
			Currency:     r.Currency,
			Rating:       r.Rating,
			TotalReviews: r.TotalReviews,
			Availability: r.Availability,
		},
		FetchedAt: r.FetchedAt,
		CreatedAt: r.CreatedAt,
	}
}

// classifyPostgres marks connection-class failures as ErrUnavailable
func classifyPostgres(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception; 57P0x: server shutting down
		if strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P0") {
			return unavailable(err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, driver.ErrBadConn) {
		return unavailable(err)
	}
	return err
}
