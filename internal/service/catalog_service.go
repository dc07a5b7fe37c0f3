package service

import (
	"context"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"go.uber.org/zap"
)

// CatalogService отвечает на вопрос "к кому можно записаться по модулю"
type CatalogService struct {
	modules ModuleLookup
	logger  *zap.Logger
}

func NewCatalogService(modules ModuleLookup, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		modules: modules,
		logger:  logger,
	}
}

// ModuleTutors возвращает модуль и его тьюторов. Неизвестный или
// выключенный модуль - ErrNotFound.
func (s *CatalogService) ModuleTutors(ctx context.Context, moduleCode string) (*model.Module, []*model.User, error) {
	module, err := s.modules.GetByCode(ctx, moduleCode)
	if err != nil {
		return nil, nil, storageErr("get module", err)
	}
	if module == nil || !module.IsActive {
		return nil, nil, notFound("module", moduleCode)
	}

	tutors, err := s.modules.ListTutors(ctx, moduleCode)
	if err != nil {
		s.logger.Error("Failed to list module tutors",
			zap.String("module_code", moduleCode),
			zap.Error(err),
		)
		return nil, nil, storageErr("list module tutors", err)
	}

	return module, tutors, nil
}
