package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"watizat/internal/utils"
	"watizat/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userTableName = "watizat.users"

type userRow struct {
	ID             string    `db:"id"`
	Email          string    `db:"email"`
	Name           string    `db:"name"`
	Role           string    `db:"role"`
	Languages      []string  `db:"languages"`
	HelpCategories []string  `db:"help_categories"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

var userColumns = utils.Columns(userRow{})

func newUserRow(user *types.User) userRow {
	languages := user.Languages
	if languages == nil {
		languages = []string{}
	}

	return userRow{
		ID:             user.ID,
		Email:          strings.TrimSpace(user.Email),
		Name:           strings.TrimSpace(user.Name),
		Role:           string(user.Role),
		Languages:      languages,
		HelpCategories: categoriesToText(user.HelpCategories),
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func (r *userRow) toUser() *types.User {
	return &types.User{
		ID:             r.ID,
		Email:          r.Email,
		Name:           r.Name,
		Role:           types.Role(r.Role),
		Languages:      r.Languages,
		HelpCategories: categoriesFromText(r.HelpCategories),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) User(ctx context.Context, userID string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var row userRow
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return row.toUser(), nil
}

// CreateUser inserts the user, or refreshes its profile when the identity
// provider hands back an id that already exists.
func (r *UserRepository) CreateUser(ctx context.Context, user *types.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := upsertUserQuery(newUserRow(user)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create user")
}

func upsertUserQuery(row userRow) sq.InsertBuilder {
	values := utils.ColumnValues(row)

	args := make([]any, len(userColumns))
	for i, c := range userColumns {
		args[i] = values[c]
	}

	return psql().
		Insert(userTableName).
		Columns(userColumns...).
		Values(args...).
		Suffix("ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name, role = EXCLUDED.role, languages = EXCLUDED.languages, help_categories = EXCLUDED.help_categories, updated_at = EXCLUDED.updated_at")
}

// UpdateHelpCategories replaces the categories a volunteer offers help in.
func (r *UserRepository) UpdateHelpCategories(ctx context.Context, userID string, categories []types.Category) error {
	query, args, err := psql().
		Update(userTableName).
		Set("help_categories", categoriesToText(categories)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update help categories query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update help categories: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}

	return nil
}
