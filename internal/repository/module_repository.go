package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ModuleRepository struct {
	*base.Repository
}

func NewModuleRepository(pool *pgxpool.Pool) *ModuleRepository {
	return &ModuleRepository{Repository: base.NewRepository(pool)}
}

// GetByCode получает модуль по коду
func (r *ModuleRepository) GetByCode(ctx context.Context, code string) (*model.Module, error) {
	query := `
		SELECT module_code, module_name, description, is_active, created_at
		FROM modules
		WHERE module_code = $1
	`

	var module model.Module
	err := r.QueryRow(ctx, query, code).Scan(
		&module.Code,
		&module.Name,
		&module.Description,
		&module.IsActive,
		&module.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get module by code: %w", err)
	}

	return &module, nil
}

// IsTutorAssigned проверяет, что тьютор ведёт модуль
func (r *ModuleRepository) IsTutorAssigned(ctx context.Context, moduleCode, tutorID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM module_tutors
			WHERE module_code = $1 AND tutor_id = $2
		)
	`

	var assigned bool
	if err := r.QueryRow(ctx, query, moduleCode, tutorID).Scan(&assigned); err != nil {
		return false, fmt.Errorf("check module tutor: %w", err)
	}

	return assigned, nil
}

// ListTutors возвращает тьюторов модуля по имени
func (r *ModuleRepository) ListTutors(ctx context.Context, moduleCode string) ([]*model.User, error) {
	query := `
		SELECT u.id, u.name, u.role, u.telegram_chat_id, u.created_at
		FROM module_tutors mt
		JOIN users u ON u.id = mt.tutor_id
		WHERE mt.module_code = $1 AND u.role = 'tutor'
		ORDER BY u.name, u.id
	`

	rows, err := r.Query(ctx, query, moduleCode)
	if err != nil {
		return nil, fmt.Errorf("list module tutors: %w", err)
	}
	defer rows.Close()

	var tutors []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Role, &user.TelegramChatID, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan module tutor: %w", err)
		}
		tutors = append(tutors, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate module tutors: %w", err)
	}

	return tutors, nil
}
