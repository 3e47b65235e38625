//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const (
	DefaultPassword = "password123"

	FullGroomService = "Full Groom"
	BathBrushService = "Bath & Brush"
)

// DBLike is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	hashOnce    sync.Once
	defaultHash string
)

// bcrypt at the minimum cost keeps fixture setup fast.
func defaultPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := password.HashPasswordWithCost(DefaultPassword, 4)
		if err == nil {
			defaultHash = h
		}
	})
	require.NotEmpty(t, defaultHash)
	return defaultHash
}

func CreateTestStaff(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	staffID := uuid.New()
	ctx := context.Background()
	tag, err := db.Exec(ctx,
		"INSERT INTO staff_members (id, email, display_name, password_hash, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		staffID, strings.ToLower(email), strings.Split(email, "@")[0], defaultPasswordHash(t), role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		require.NoError(t, db.QueryRow(ctx, "SELECT id FROM staff_members WHERE email = $1", strings.ToLower(email)).Scan(&staffID))
	}
	return staffID
}

func DeactivateStaff(t *testing.T, db DBLike, staffID uuid.UUID) {
	t.Helper()
	_, err := db.Exec(context.Background(), "UPDATE staff_members SET is_active = false WHERE id = $1", staffID)
	require.NoError(t, err)
}

type Customer struct {
	ID    uuid.UUID
	PetID uuid.UUID
	Phone string
}

// CreateTestCustomer inserts a customer with one pet.
func CreateTestCustomer(t *testing.T, db DBLike, name, phone string) Customer {
	t.Helper()

	normalized, err := waitlist.NormalizePhone(phone)
	require.NoError(t, err)

	c := Customer{ID: uuid.New(), PetID: uuid.New(), Phone: phone}
	ctx := context.Background()
	_, err = db.Exec(ctx, "INSERT INTO customers (id, name, phone, phone_normalized) VALUES ($1, $2, $3, $4)",
		c.ID, name, phone, normalized)
	require.NoError(t, err)
	_, err = db.Exec(ctx, "INSERT INTO pets (id, customer_id, name) VALUES ($1, $2, $3)", c.PetID, c.ID, name+"'s dog")
	require.NoError(t, err)
	return c
}

func ServiceID(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	require.NoError(t, db.QueryRow(context.Background(), "SELECT id FROM services WHERE name = $1", name).Scan(&id))
	return id
}

// CreateTestEntry inserts an active entry created age before now.
func CreateTestEntry(t *testing.T, db DBLike, c Customer, serviceID uuid.UUID, requested time.Time, age time.Duration) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO waitlist_entries (id, customer_id, pet_id, service_id, requested_date, created_at)
		VALUES ($1, $2, $3, $4, $5, now() - $6::interval)`,
		id, c.ID, c.PetID, serviceID, requested.Format(time.DateOnly), fmt.Sprintf("%d seconds", int(age.Seconds())))
	require.NoError(t, err)
	return id
}

func EntryStatus(t *testing.T, db DBLike, id uuid.UUID) string {
	t.Helper()
	var status string
	require.NoError(t, db.QueryRow(context.Background(), "SELECT status FROM waitlist_entries WHERE id = $1", id).Scan(&status))
	return status
}

// ExpireOffer moves an offer's deadline into the past so the sweeper picks it up.
func ExpireOffer(t *testing.T, db DBLike, offerID uuid.UUID) {
	t.Helper()
	_, err := db.Exec(context.Background(), "UPDATE slot_offers SET expires_at = now() - interval '1 minute' WHERE id = $1", offerID)
	require.NoError(t, err)
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO services (name, price_cents, duration_min) VALUES
		    ('Full Groom', 8000, 90),
		    ('Bath & Brush', 4500, 45)
		ON CONFLICT (name) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations', 'atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
