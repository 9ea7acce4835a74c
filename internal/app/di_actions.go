package app

import (
	"fmt"

	actionsHTTP "github.com/allisson/actionserver/internal/actions/http"
	actionsRepository "github.com/allisson/actionserver/internal/actions/repository"
	actionsService "github.com/allisson/actionserver/internal/actions/service"
	actionsUseCase "github.com/allisson/actionserver/internal/actions/usecase"
)

// ActionRegistry returns the registry of actions declared in the manifest.
func (c *Container) ActionRegistry() (*actionsService.Registry, error) {
	var err error
	c.actionRegistryInit.Do(func() {
		c.actionRegistry, err = c.initActionRegistry()
		if err != nil {
			c.initErrors["actionRegistry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actionRegistry"]; exists {
		return nil, storedErr
	}
	return c.actionRegistry, nil
}

// Runner returns the process runner for action commands.
func (c *Container) Runner() *actionsService.Runner {
	c.runnerInit.Do(func() {
		c.runner = actionsService.NewRunner(
			c.RedactRegistry(),
			c.Logger(),
			c.config.ActionTimeout,
			c.config.RunOutputLimit,
		)
	})
	return c.runner
}

// RunRepository returns the run repository based on database driver.
func (c *Container) RunRepository() (actionsUseCase.RunRepository, error) {
	var err error
	c.runRepoInit.Do(func() {
		c.runRepo, err = c.initRunRepository()
		if err != nil {
			c.initErrors["runRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["runRepo"]; exists {
		return nil, storedErr
	}
	return c.runRepo, nil
}

// ActionUseCase returns the action catalog use case.
func (c *Container) ActionUseCase() (actionsUseCase.ActionUseCase, error) {
	var err error
	c.actionUseCaseInit.Do(func() {
		c.actionUseCase, err = c.initActionUseCase()
		if err != nil {
			c.initErrors["actionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actionUseCase"]; exists {
		return nil, storedErr
	}
	return c.actionUseCase, nil
}

// RunUseCase returns the run execution use case.
func (c *Container) RunUseCase() (actionsUseCase.RunUseCase, error) {
	var err error
	c.runUseCaseInit.Do(func() {
		c.runUseCase, err = c.initRunUseCase()
		if err != nil {
			c.initErrors["runUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["runUseCase"]; exists {
		return nil, storedErr
	}
	return c.runUseCase, nil
}

// ActionHandler returns the HTTP handler for the action catalog.
func (c *Container) ActionHandler() (*actionsHTTP.ActionHandler, error) {
	var err error
	c.actionHandlerInit.Do(func() {
		c.actionHandler, err = c.initActionHandler()
		if err != nil {
			c.initErrors["actionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actionHandler"]; exists {
		return nil, storedErr
	}
	return c.actionHandler, nil
}

// RunHandler returns the HTTP handler for action runs.
func (c *Container) RunHandler() (*actionsHTTP.RunHandler, error) {
	var err error
	c.runHandlerInit.Do(func() {
		c.runHandler, err = c.initRunHandler()
		if err != nil {
			c.initErrors["runHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["runHandler"]; exists {
		return nil, storedErr
	}
	return c.runHandler, nil
}

// initActionRegistry loads the action manifest from disk.
func (c *Container) initActionRegistry() (*actionsService.Registry, error) {
	registry, err := actionsService.LoadRegistry(c.config.ActionsManifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load action manifest: %w", err)
	}
	return registry, nil
}

// initRunRepository creates the run repository instance.
func (c *Container) initRunRepository() (actionsUseCase.RunRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for run repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return actionsRepository.NewMySQLRunRepository(db), nil
	case "postgres":
		return actionsRepository.NewPostgreSQLRunRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initActionUseCase creates the action catalog use case.
func (c *Container) initActionUseCase() (actionsUseCase.ActionUseCase, error) {
	registry, err := c.ActionRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get action registry for action use case: %w", err)
	}
	return actionsUseCase.NewActionUseCase(registry), nil
}

// initRunUseCase creates the run execution use case with all its dependencies.
func (c *Container) initRunUseCase() (actionsUseCase.RunUseCase, error) {
	registry, err := c.ActionRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get action registry for run use case: %w", err)
	}

	runRepo, err := c.RunRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get run repository for run use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for run use case: %w", err)
	}

	useCase := actionsUseCase.NewRunUseCase(registry, runRepo, c.Runner())
	return actionsUseCase.NewRunUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initActionHandler creates the HTTP handler for the action catalog.
func (c *Container) initActionHandler() (*actionsHTTP.ActionHandler, error) {
	actionUseCase, err := c.ActionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get action use case for action handler: %w", err)
	}
	return actionsHTTP.NewActionHandler(actionUseCase, c.Logger()), nil
}

// initRunHandler creates the HTTP handler for action runs.
func (c *Container) initRunHandler() (*actionsHTTP.RunHandler, error) {
	runUseCase, err := c.RunUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get run use case for run handler: %w", err)
	}
	return actionsHTTP.NewRunHandler(runUseCase, c.ContextService(), c.Logger()), nil
}
