package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"peopleops/internal/auth"
	"peopleops/internal/config"
	"peopleops/internal/dropdown"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureDropdownValues(ctx, pool); err != nil {
		return err
	}
	if cfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}
	return nil
}

var seedDropdowns = map[int][]string{
	dropdown.TypeDepartment:     {"Engineering", "Human Resources", "Finance", "Operations", "Sales"},
	dropdown.TypeSubDepartment:  {"Platform", "Product", "Recruitment", "Accounts Payable", "Field Operations"},
	dropdown.TypePosition:       {"Junior", "Mid-level", "Senior", "Lead", "Head of Department"},
	dropdown.TypeEmploymentType: {"Full-time", "Part-time", "Contract", "Intern"},
	dropdown.TypeWorkLocation:   {"On-site", "Remote", "Hybrid"},
	dropdown.TypeJobTitle:       {"Software Engineer", "HR Generalist", "Accountant", "Operations Manager", "Account Executive"},
}

func ensureDropdownValues(ctx context.Context, pool *pgxpool.Pool) error {
	for typeID, names := range seedDropdowns {
		for _, name := range names {
			_, err := pool.Exec(ctx, `
        INSERT INTO dropdown_values (type_id, value_name)
        VALUES ($1, $2)
        ON CONFLICT (type_id, value_name) DO NOTHING
      `, typeID, name)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, role_name)
    VALUES ($1, $2, $3)
  `, email, hash, auth.RoleHR)
	return err
}
