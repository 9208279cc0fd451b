package providers

import (
	"github.com/samber/do/v2"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/logger"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/service"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideCrumbService provides the crumb service.
func ProvideCrumbService(i do.Injector) (*service.CrumbService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCrumbService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideUnitService provides the unit service.
func ProvideUnitService(i do.Injector) (*service.UnitService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	crumbService := do.MustInvoke[*service.CrumbService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUnitService(storeHandle.Store, crumbService, validator, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	crumbService := do.MustInvoke[*service.CrumbService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, crumbService, log.Logger), nil
}
