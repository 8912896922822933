package seed

import (
	"context"
	"fmt"

	"watizat/pkg/types"

	"github.com/sirupsen/logrus"
)

type UserWriter interface {
	CreateUser(ctx context.Context, user *types.User) error
}

var demoUsers = []types.User{
	{ID: "seed-migrant-0001", Email: "amina.diallo+seed1@example.org", Name: "Amina Diallo", Role: types.RoleMigrant, Languages: []string{"fr", "wo"}},
	{ID: "seed-migrant-0002", Email: "omar.haddad+seed2@example.org", Name: "Omar Haddad", Role: types.RoleMigrant, Languages: []string{"ar", "en"}},
	{ID: "seed-migrant-0003", Email: "lucia.pereira+seed3@example.org", Name: "Lucia Pereira", Role: types.RoleMigrant, Languages: []string{"pt", "fr"}},
	{ID: "seed-migrant-0004", Email: "dawit.bekele+seed4@example.org", Name: "Dawit Bekele", Role: types.RoleMigrant, Languages: []string{"am", "en"}},
	{ID: "seed-volunteer-0001", Email: "claire.martin+seed5@example.org", Name: "Claire Martin", Role: types.RoleVolunteer, Languages: []string{"fr", "en"},
		HelpCategories: []types.Category{types.CategoryHousing, types.CategoryLegal}},
	{ID: "seed-volunteer-0002", Email: "julien.roux+seed6@example.org", Name: "Julien Roux", Role: types.RoleVolunteer, Languages: []string{"fr"},
		HelpCategories: []types.Category{types.CategoryWork, types.CategoryEducation}},
	{ID: "seed-volunteer-0003", Email: "sarah.benali+seed7@example.org", Name: "Sarah Benali", Role: types.RoleVolunteer, Languages: []string{"fr", "ar"},
		HelpCategories: []types.Category{types.CategoryHealth, types.CategoryFood, types.CategorySocial, types.CategoryClothes}},
	{ID: "seed-volunteer-0004", Email: "marc.lefevre+seed8@example.org", Name: "Marc Lefevre", Role: types.RoleVolunteer, Languages: []string{"fr", "es"}},
	{ID: "seed-admin-0001", Email: "admin+seed9@example.org", Name: "Watizat Admin", Role: types.RoleAdmin, Languages: []string{"fr", "en"}},
}

func userIDsByRole(role types.Role) []string {
	ids := make([]string, 0, len(demoUsers))
	for _, u := range demoUsers {
		if u.Role == role {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

func nameOf(userID string) string {
	for _, u := range demoUsers {
		if u.ID == userID {
			return u.Name
		}
	}
	return ""
}

// SeedUsers upserts the demo accounts. They exist only in the database, so
// they cannot sign in through the identity provider.
func SeedUsers(ctx context.Context, users UserWriter) error {
	for _, demo := range demoUsers {
		user := demo
		if err := users.CreateUser(ctx, &user); err != nil {
			return fmt.Errorf("failed to upsert demo user %s: %w", demo.ID, err)
		}
	}

	logrus.WithField("count", len(demoUsers)).Info("demo users seeded")
	return nil
}
