// Package dropdown serves the configurable select-list values (departments,
// positions, work locations and the like) that employee forms are populated
// from.
package dropdown

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	TypeDepartment     = 1
	TypeSubDepartment  = 2
	TypePosition       = 3
	TypeEmploymentType = 4
	TypeWorkLocation   = 5
	TypeJobTitle       = 6
)

var typeNames = map[int]string{
	TypeDepartment:     "department",
	TypeSubDepartment:  "sub_department",
	TypePosition:       "position",
	TypeEmploymentType: "employment_type",
	TypeWorkLocation:   "work_location",
	TypeJobTitle:       "job_title",
}

// KnownType reports whether the numeric type id is one we serve.
func KnownType(typeID int) bool {
	_, ok := typeNames[typeID]
	return ok
}

func TypeName(typeID int) string {
	return typeNames[typeID]
}

type Value struct {
	ID        string `json:"valueId"`
	TypeID    int    `json:"typeId"`
	ValueName string `json:"valueName"`
}

// TypeValues is the response shape for listing one dropdown type.
type TypeValues struct {
	TypeID   int     `json:"typeId"`
	TypeName string  `json:"typeName"`
	Values   []Value `json:"values"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListByType(ctx context.Context, typeID int) ([]Value, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, type_id, value_name
    FROM dropdown_values
    WHERE type_id = $1
    ORDER BY value_name
  `, typeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []Value
	for rows.Next() {
		var v Value
		if err := rows.Scan(&v.ID, &v.TypeID, &v.ValueName); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (s *Store) Create(ctx context.Context, typeID int, valueName string) (Value, error) {
	var v Value
	err := s.DB.QueryRow(ctx, `
    INSERT INTO dropdown_values (type_id, value_name)
    VALUES ($1, $2)
    RETURNING id, type_id, value_name
  `, typeID, valueName).Scan(&v.ID, &v.TypeID, &v.ValueName)
	return v, err
}
