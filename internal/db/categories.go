package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidCategoryName is returned when a category name fails validation.
var ErrInvalidCategoryName = errors.New("invalid category name")

// ErrCategoryExists is returned when creating a category whose name is taken.
var ErrCategoryExists = errors.New("category already exists")

// ErrCategoryDeleted is returned when deleting an already-deleted category.
var ErrCategoryDeleted = errors.New("category already deleted")

const maxCategoryNameLen = 120

// ValidateCategoryName checks the category name constraints.
func ValidateCategoryName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidCategoryName)
	}
	if len(name) > maxCategoryNameLen {
		return fmt.Errorf("%w: name cannot exceed %d characters", ErrInvalidCategoryName, maxCategoryNameLen)
	}
	return nil
}

func (s *Store) CreateCategory(name, description string) (*Category, error) {
	if err := ValidateCategoryName(name); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	var existingID int64
	err := s.db.QueryRow(`SELECT id FROM categories WHERE name = ? AND is_deleted = 0`, name).Scan(&existingID)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoryExists, name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	res, err := s.db.Exec(`
		INSERT INTO categories (name, description, created_at, updated_at, is_deleted)
		VALUES (?, ?, ?, ?, 0)`, name, description, now, now)
	if err != nil {
		// A soft-deleted category still owns its name via the UNIQUE
		// constraint.
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("%w: %s", ErrCategoryExists, name)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Category{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *Store) ListCategories(includeDeleted bool) ([]Category, error) {
	query := `SELECT id, name, description, created_at, updated_at, is_deleted FROM categories`
	if !includeDeleted {
		query += ` WHERE is_deleted = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.CreatedAt, &c.UpdatedAt, &c.IsDeleted); err != nil {
			return nil, err
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategory(id int64) (*Category, error) {
	var c Category
	var description sql.NullString
	err := s.db.QueryRow(`
		SELECT id, name, description, created_at, updated_at, is_deleted
		FROM categories WHERE id = ?`, id).Scan(
		&c.ID, &c.Name, &description, &c.CreatedAt, &c.UpdatedAt, &c.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	c.Description = description.String
	return &c, nil
}

// DeleteCategory marks a category as deleted without removing the row.
func (s *Store) DeleteCategory(id int64) (*Category, error) {
	c, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted {
		return nil, fmt.Errorf("%s: %w", c.Name, ErrCategoryDeleted)
	}

	now := time.Now()
	if _, err := s.db.Exec(`UPDATE categories SET is_deleted = 1, updated_at = ? WHERE id = ?`, now, id); err != nil {
		return nil, err
	}
	c.IsDeleted = true
	c.UpdatedAt = now
	return c, nil
}

// AssignCategory links a category to a tweet. Assigning an existing link is a
// no-op and reports false.
func (s *Store) AssignCategory(tweetID, categoryID int64) (bool, error) {
	if _, err := s.GetCategory(categoryID); err != nil {
		return false, err
	}

	var exists int
	err := s.db.QueryRow(`
		SELECT 1 FROM tweet_categories WHERE tweet_id = ? AND category_id = ?`,
		tweetID, categoryID).Scan(&exists)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	_, err = s.db.Exec(`
		INSERT INTO tweet_categories (tweet_id, category_id, added_at) VALUES (?, ?, ?)`,
		tweetID, categoryID, time.Now())
	return err == nil, err
}

// UnassignCategory removes a category link from a tweet and reports whether a
// link existed.
func (s *Store) UnassignCategory(tweetID, categoryID int64) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM tweet_categories WHERE tweet_id = ? AND category_id = ?`,
		tweetID, categoryID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// CategoriesForTweet returns the non-deleted categories assigned to a tweet.
func (s *Store) CategoriesForTweet(tweetID int64) ([]Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at, c.is_deleted
		FROM categories c
		JOIN tweet_categories tc ON tc.category_id = c.id
		WHERE tc.tweet_id = ? AND c.is_deleted = 0
		ORDER BY c.name`, tweetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.CreatedAt, &c.UpdatedAt, &c.IsDeleted); err != nil {
			return nil, err
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
