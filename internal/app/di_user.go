package app

import (
	"fmt"

	identityService "github.com/allisson/filevault/internal/identity/service"
	userCache "github.com/allisson/filevault/internal/user/cache"
	userHTTP "github.com/allisson/filevault/internal/user/http"
	userRepository "github.com/allisson/filevault/internal/user/repository"
	userUseCase "github.com/allisson/filevault/internal/user/usecase"
)

// TokenService returns the access token service.
func (c *Container) TokenService() (*identityService.TokenService, error) {
	c.tokenServiceInit.Do(func() {
		tokens, err := identityService.NewTokenService(
			c.config.JWTSecret,
			c.config.JWTIssuer,
			c.config.JWTExpiration,
		)
		if err != nil {
			c.storeError("tokenService", fmt.Errorf("failed to create token service: %w", err))
			return
		}
		c.tokenService = tokens
	})
	if err := c.storedError("tokenService"); err != nil {
		return nil, err
	}
	return c.tokenService, nil
}

// RedisCache returns the redis user cache, or nil when REDIS_ADDR is empty.
func (c *Container) RedisCache() *userCache.RedisCache {
	c.redisCacheInit.Do(func() {
		if c.config.RedisAddr == "" {
			return
		}
		c.redisCache = userCache.NewRedisCache(userCache.RedisConfig{
			Addr:     c.config.RedisAddr,
			Password: c.config.RedisPassword,
			DB:       c.config.RedisDB,
		}, c.Logger())
	})
	return c.redisCache
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		repo, err := c.initUserRepository()
		if err != nil {
			c.storeError("userRepo", err)
			return
		}
		c.userRepo = repo
	})
	if err := c.storedError("userRepo"); err != nil {
		return nil, err
	}
	return c.userRepo, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	c.userUseCaseInit.Do(func() {
		uc, err := c.initUserUseCase()
		if err != nil {
			c.storeError("userUseCase", err)
			return
		}
		c.userUseCase = uc
	})
	if err := c.storedError("userUseCase"); err != nil {
		return nil, err
	}
	return c.userUseCase, nil
}

// UserHandler returns the registration and login handler.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	c.userHandlerInit.Do(func() {
		uc, err := c.UserUseCase()
		if err != nil {
			c.storeError("userHandler", fmt.Errorf("failed to get user use case for user handler: %w", err))
			return
		}
		c.userHandler = userHTTP.NewUserHandler(uc, c.config.SecureCookies, c.Logger())
	})
	if err := c.storedError("userHandler"); err != nil {
		return nil, err
	}
	return c.userHandler, nil
}

// initUserRepository selects the repository for the configured driver and puts the
// redis cache in front of it when one is configured.
func (c *Container) initUserRepository() (userUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	var repo userUseCase.UserRepository
	switch c.config.DBDriver {
	case "mysql":
		repo = userRepository.NewMySQLUserRepository(db)
	case "postgres":
		repo = userRepository.NewPostgreSQLUserRepository(db)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}

	if cache := c.RedisCache(); cache != nil {
		return userCache.NewCachedUserRepository(repo, cache, c.config.UserCacheTTL, c.Logger()), nil
	}
	return repo, nil
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (userUseCase.UseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	tokens, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for user use case: %w", err)
	}

	hasher, err := userUseCase.NewPasswordHasher()
	if err != nil {
		return nil, err
	}

	return userUseCase.NewUserUseCase(userRepo, hasher, tokens), nil
}
