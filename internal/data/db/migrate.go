package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/platefeed/platefeed-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity
		// =========================
		&types.User{},
		&types.Subscription{},

		// =========================
		// Catalog
		// =========================
		&types.Ingredient{},
		&types.Tag{},

		// =========================
		// Recipes + composition
		// =========================
		&types.Recipe{},
		&types.RecipeIngredient{},
		&types.RecipeTag{},

		// =========================
		// Per-user recipe sets
		// =========================
		&types.Favorite{},
		&types.ShoppingCartItem{},
	)
}

// EnsureConstraints adds the FK cascades and CHECK constraints that
// AutoMigrate skips (foreign keys are disabled during migration). Deleting
// a user or recipe must cascade through every dependent row, and the
// composite unique indexes plus these checks carry the integrity rules the
// services rely on.
func EnsureConstraints(db *gorm.DB) error {
	constraints := []struct {
		name string
		ddl  string
	}{
		{"chk_recipe_cooking_time", `ALTER TABLE recipe ADD CONSTRAINT chk_recipe_cooking_time CHECK (cooking_time >= 1);`},
		{"chk_recipe_ingredient_amount", `ALTER TABLE recipe_ingredient ADD CONSTRAINT chk_recipe_ingredient_amount CHECK (amount >= 1);`},
		{"chk_subscription_not_self", `ALTER TABLE subscription ADD CONSTRAINT chk_subscription_not_self CHECK (follower_id <> author_id);`},

		{"fk_recipe_author", `ALTER TABLE recipe ADD CONSTRAINT fk_recipe_author FOREIGN KEY (author_id) REFERENCES "user"(id) ON DELETE CASCADE;`},
		{"fk_recipe_ingredient_recipe", `ALTER TABLE recipe_ingredient ADD CONSTRAINT fk_recipe_ingredient_recipe FOREIGN KEY (recipe_id) REFERENCES recipe(id) ON DELETE CASCADE;`},
		{"fk_recipe_ingredient_ingredient", `ALTER TABLE recipe_ingredient ADD CONSTRAINT fk_recipe_ingredient_ingredient FOREIGN KEY (ingredient_id) REFERENCES ingredient(id) ON DELETE CASCADE;`},
		{"fk_recipe_tag_recipe", `ALTER TABLE recipe_tag ADD CONSTRAINT fk_recipe_tag_recipe FOREIGN KEY (recipe_id) REFERENCES recipe(id) ON DELETE CASCADE;`},
		{"fk_recipe_tag_tag", `ALTER TABLE recipe_tag ADD CONSTRAINT fk_recipe_tag_tag FOREIGN KEY (tag_id) REFERENCES tag(id) ON DELETE CASCADE;`},
		{"fk_favorite_user", `ALTER TABLE favorite ADD CONSTRAINT fk_favorite_user FOREIGN KEY (user_id) REFERENCES "user"(id) ON DELETE CASCADE;`},
		{"fk_favorite_recipe", `ALTER TABLE favorite ADD CONSTRAINT fk_favorite_recipe FOREIGN KEY (recipe_id) REFERENCES recipe(id) ON DELETE CASCADE;`},
		{"fk_shopping_cart_item_user", `ALTER TABLE shopping_cart_item ADD CONSTRAINT fk_shopping_cart_item_user FOREIGN KEY (user_id) REFERENCES "user"(id) ON DELETE CASCADE;`},
		{"fk_shopping_cart_item_recipe", `ALTER TABLE shopping_cart_item ADD CONSTRAINT fk_shopping_cart_item_recipe FOREIGN KEY (recipe_id) REFERENCES recipe(id) ON DELETE CASCADE;`},
		{"fk_subscription_follower", `ALTER TABLE subscription ADD CONSTRAINT fk_subscription_follower FOREIGN KEY (follower_id) REFERENCES "user"(id) ON DELETE CASCADE;`},
		{"fk_subscription_author", `ALTER TABLE subscription ADD CONSTRAINT fk_subscription_author FOREIGN KEY (author_id) REFERENCES "user"(id) ON DELETE CASCADE;`},
	}
	for _, c := range constraints {
		if err := ensureConstraint(db, c.name, c.ddl); err != nil {
			return err
		}
	}
	return nil
}

func ensureConstraint(db *gorm.DB, name, ddl string) error {
	var count int64
	if err := db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, name).Scan(&count).Error; err != nil {
		return fmt.Errorf("check constraint %s: %w", name, err)
	}
	if count > 0 {
		return nil
	}
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("create constraint %s: %w", name, err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureConstraints(s.db); err != nil {
		s.log.Error("Constraint migration failed", "error", err)
		return err
	}
	return nil
}
