package db_test

import (
	"context"
	"testing"

	"catalog_system/internal/db"
	"catalog_system/internal/db/dbtest"
	"catalog_system/internal/domain"
	"catalog_system/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx, gdb))
	require.NoError(t, db.Migrate(ctx, gdb))

	var applied int64
	require.NoError(t, gdb.Table("schema_migrations").Count(&applied).Error)
	assert.EqualValues(t, 6, applied)

	m := gdb.Migrator()
	for _, table := range []string{"users", "categories", "logos", "print_settings", "products"} {
		assert.True(t, m.HasTable(table), table)
	}
	assert.True(t, m.HasColumn(&domain.User{}, "is_active"))
	assert.True(t, m.HasColumn(&domain.PrintSettings{}, "card_mode"))
}

func TestMigrateUpgradesLegacySchema(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()

	// A store written before profile and layout columns existed, with no version table.
	require.NoError(t, gdb.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP)`).Error)
	require.NoError(t, gdb.Exec(`CREATE TABLE print_settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		page_size TEXT NOT NULL DEFAULT 'A4',
		border_enabled NUMERIC NOT NULL DEFAULT false,
		updated_at DATETIME)`).Error)
	require.NoError(t, gdb.Exec(`CREATE TABLE products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		specs TEXT,
		price REAL NOT NULL,
		logo_url TEXT,
		category TEXT,
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO users (username, password_hash, role) VALUES ('old', 'x', 'admin')`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO products (code, name, specs, price, logo_url, category, description) VALUES
		('1001', 'Mouse Gaming RGB', '', 350, 'logo.png', ' إكسسوارات ', ''),
		('1002', 'Mechanical Keyboard', '', 1200, 'logo.png', ' إكسسوارات ', ''),
		('2001', 'Loose Cable', '', 10, 'logo.png', '', '')`).Error)

	require.NoError(t, db.Migrate(ctx, gdb))
	require.NoError(t, db.Seed(ctx, gdb))

	m := gdb.Migrator()
	for _, col := range []string{"full_name", "email", "phone", "is_active"} {
		assert.True(t, m.HasColumn(&domain.User{}, col), col)
	}
	for _, col := range []string{"custom_width", "custom_height", "card_color_start", "logo_id", "font_size", "border_color", "border_width", "card_mode", "card_width", "card_height"} {
		assert.True(t, m.HasColumn(&domain.PrintSettings{}, col), col)
	}

	var old domain.User
	require.NoError(t, gdb.Where("username = ?", "old").First(&old).Error)
	assert.True(t, old.IsActive, "existing rows pick up the column default")

	products, err := service.NewProductService(gdb).List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	for _, p := range products[:2] {
		require.NotNil(t, p.CategoryName, p.Code)
		assert.Equal(t, "إكسسوارات", *p.CategoryName)
	}
	assert.Nil(t, products[2].CategoryID, "blank legacy category stays unlinked")

	var ps domain.PrintSettings
	require.NoError(t, gdb.First(&ps).Error)
	assert.Equal(t, 21.0, ps.CustomWidth)
}

func TestSeedDefaults(t *testing.T) {
	gdb := dbtest.Seeded(t)

	count := func(model any) int64 {
		var n int64
		require.NoError(t, gdb.Model(model).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 1, count(&domain.User{}))
	assert.EqualValues(t, 5, count(&domain.Category{}))
	assert.EqualValues(t, 2, count(&domain.Logo{}))
	assert.EqualValues(t, 4, count(&domain.Product{}))
	assert.EqualValues(t, 1, count(&domain.PrintSettings{}))

	var admin domain.User
	require.NoError(t, gdb.Where("username = ?", db.DefaultAdminUsername).First(&admin).Error)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NotEqual(t, db.DefaultAdminPassword, admin.PasswordHash)

	var white domain.Logo
	require.NoError(t, gdb.Where("type = ?", domain.LogoTypeWhite).First(&white).Error)
	var settings domain.PrintSettings
	require.NoError(t, gdb.First(&settings).Error)
	require.NotNil(t, settings.LogoID)
	assert.Equal(t, white.ID, *settings.LogoID)

	var products []domain.Product
	require.NoError(t, gdb.Order("code").Find(&products).Error)
	assert.Equal(t, "1001", products[0].Code)
	for _, p := range products {
		assert.NotNil(t, p.CategoryID)
		assert.Equal(t, domain.DefaultLogoURL, p.LogoURL)
	}
}

func TestSeedRunsOnce(t *testing.T) {
	gdb := dbtest.Seeded(t)
	require.NoError(t, db.Seed(context.Background(), gdb))

	var users, products int64
	require.NoError(t, gdb.Model(&domain.User{}).Count(&users).Error)
	require.NoError(t, gdb.Model(&domain.Product{}).Count(&products).Error)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 4, products)
}
