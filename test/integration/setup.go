package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mini-shelf/internal/database"
	"mini-shelf/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the schema
// migrations and returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Apply the real schema migrations
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to resolve working directory: %v", err)
	}
	migrationsPath := filepath.Join(wd, "..", "..", "migrations")
	if err := database.Migrate(connStr, migrationsPath, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedProducts inserts a known set of products and returns their IDs in
// insertion order: Smartphone, Headphones (with image), Dining Table.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) []int64 {
	t.Helper()

	ctx := context.Background()

	query := `
		INSERT INTO products (name, description, brand, price, category, release_date, available, stock_quantity, image_name, image_type, image_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	products := []model.Product{
		{
			Name:          "Smartphone",
			Description:   "Flagship phone",
			Brand:         "Samsung",
			Price:         79999,
			Category:      "Electronics",
			ReleaseDate:   model.NewDate(2024, time.January, 15),
			Available:     true,
			StockQuantity: 25,
		},
		{
			Name:          "Headphones",
			Description:   "Over-ear noise cancelling",
			Brand:         "Sony",
			Price:         8999.50,
			Category:      "Audio",
			ReleaseDate:   model.NewDate(2024, time.March, 1),
			Available:     true,
			StockQuantity: 50,
			Image: &model.ImageAttachment{
				FileName: "headphones.jpg",
				MimeType: "image/jpeg",
				Data:     []byte("seeded-headphone-image"),
			},
		},
		{
			Name:          "Dining Table",
			Description:   "Solid oak dining table",
			Brand:         "Oak & Sons",
			Price:         45999,
			Category:      "Furniture",
			ReleaseDate:   model.NewDate(2023, time.November, 20),
			Available:     false,
			StockQuantity: 4,
		},
	}

	ids := make([]int64, 0, len(products))
	for _, p := range products {
		var imageName, imageType *string
		var imageData []byte
		if p.Image != nil {
			imageName = &p.Image.FileName
			imageType = &p.Image.MimeType
			imageData = p.Image.Data
		}

		var id int64
		err := pool.QueryRow(ctx, query,
			p.Name, p.Description, p.Brand, p.Price, p.Category, p.ReleaseDate.Time,
			p.Available, p.StockQuantity, imageName, imageType, imageData,
		).Scan(&id)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.Name, err)
		}

		ids = append(ids, id)
	}

	return ids
}

// CleanupDB removes all products.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	if _, err := pool.Exec(ctx, "DELETE FROM products"); err != nil {
		t.Logf("failed to clean products table: %v", err)
	}
}
