package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Store defines the interface for recipe data operations.
type Store interface {
	FetchAll(ctx context.Context) ([]Recipe, error)
	FetchByID(ctx context.Context, id int64) (*Recipe, error)
	SaveRecipe(ctx context.Context, recipe *Recipe) error
}

const recipeColumns = "id, title, category, image_url, ingredients, instructions, cooking_time, difficulty, video_url"

var schemas = map[string]string{
	"postgres": `
	CREATE TABLE IF NOT EXISTS recipes (
		id BIGSERIAL PRIMARY KEY,
		title TEXT,
		category TEXT,
		image_url TEXT,
		ingredients TEXT,
		instructions TEXT,
		cooking_time TEXT,
		difficulty TEXT,
		video_url TEXT
	);
	`,
	"sqlite3": `
	CREATE TABLE IF NOT EXISTS recipes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		category TEXT,
		image_url TEXT,
		ingredients TEXT,
		instructions TEXT,
		cooking_time TEXT,
		difficulty TEXT,
		video_url TEXT
	);
	`,
}

// SupportedDrivers returns the database drivers Open accepts, sorted.
func SupportedDrivers() []string {
	drivers := make([]string, 0, len(schemas))
	for name := range schemas {
		drivers = append(drivers, name)
	}
	sort.Strings(drivers)
	return drivers
}

// IsSupportedDriver reports whether Open accepts driverName.
func IsSupportedDriver(driverName string) bool {
	_, ok := schemas[driverName]
	return ok
}

// row mirrors the recipes table; every text column is nullable.
type row struct {
	ID           int64          `db:"id"`
	Title        sql.NullString `db:"title"`
	Category     sql.NullString `db:"category"`
	ImageURL     sql.NullString `db:"image_url"`
	Ingredients  sql.NullString `db:"ingredients"`
	Instructions sql.NullString `db:"instructions"`
	CookingTime  sql.NullString `db:"cooking_time"`
	Difficulty   sql.NullString `db:"difficulty"`
	VideoURL     sql.NullString `db:"video_url"`
}

func (r row) recipe() Recipe {
	return Recipe{
		ID:           r.ID,
		Title:        r.Title.String,
		Category:     r.Category.String,
		ImageURL:     r.ImageURL.String,
		Ingredients:  r.Ingredients.String,
		Instructions: r.Instructions.String,
		CookingTime:  r.CookingTime.String,
		Difficulty:   r.Difficulty.String,
		VideoURL:     r.VideoURL.String,
	}
}

// SQLStore implements Store on top of sqlx for PostgreSQL and SQLite.
type SQLStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new SQLStore backed by PostgreSQL.
func NewPostgresStore(dataSourceName string) (*SQLStore, error) {
	return Open("postgres", dataSourceName)
}

// NewSQLiteStore creates a new SQLStore backed by a SQLite file.
func NewSQLiteStore(path string) (*SQLStore, error) {
	return Open("sqlite3", path)
}

// Open connects with the given driver and creates the recipes table if
// it does not exist.
func Open(driverName, dataSourceName string) (*SQLStore, error) {
	schema, ok := schemas[driverName]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}

	db, err := sqlx.Connect(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driverName == "sqlite3" {
		// :memory: databases are per connection
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create recipes table: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// FetchAll retrieves every recipe ordered by ascending id.
func (s *SQLStore) FetchAll(ctx context.Context) ([]Recipe, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, "SELECT "+recipeColumns+" FROM recipes ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	recipes := make([]Recipe, 0, len(rows))
	for _, r := range rows {
		recipes = append(recipes, r.recipe())
	}
	return recipes, nil
}

// FetchByID retrieves a recipe by its id. It returns nil, nil when no
// recipe has that id.
func (s *SQLStore) FetchByID(ctx context.Context, id int64) (*Recipe, error) {
	var r row
	err := s.db.GetContext(ctx, &r, s.db.Rebind("SELECT "+recipeColumns+" FROM recipes WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Recipe not found
		}
		return nil, fmt.Errorf("failed to get recipe by id: %w", err)
	}

	recipe := r.recipe()
	return &recipe, nil
}

// SaveRecipe inserts or updates a recipe. A recipe with a zero ID is
// inserted and receives the id assigned by the database.
func (s *SQLStore) SaveRecipe(ctx context.Context, recipe *Recipe) error {
	args := []interface{}{
		recipe.Title,
		nullable(recipe.Category),
		nullable(recipe.ImageURL),
		nullable(recipe.Ingredients),
		nullable(recipe.Instructions),
		nullable(recipe.CookingTime),
		nullable(recipe.Difficulty),
		nullable(recipe.VideoURL),
	}

	if recipe.ID == 0 {
		query := s.db.Rebind("INSERT INTO recipes (title, category, image_url, ingredients, instructions, cooking_time, difficulty, video_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id")
		if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&recipe.ID); err != nil {
			return fmt.Errorf("failed to save recipe: %w", err)
		}
		return nil
	}

	query := s.db.Rebind("INSERT INTO recipes (id, title, category, image_url, ingredients, instructions, cooking_time, difficulty, video_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO UPDATE SET title = excluded.title, category = excluded.category, image_url = excluded.image_url, ingredients = excluded.ingredients, instructions = excluded.instructions, cooking_time = excluded.cooking_time, difficulty = excluded.difficulty, video_url = excluded.video_url")
	if _, err := s.db.ExecContext(ctx, query, append([]interface{}{recipe.ID}, args...)...); err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
