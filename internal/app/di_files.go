package app

import (
	"context"
	"fmt"
	"time"

	filesHTTP "github.com/allisson/filevault/internal/files/http"
	filesRepository "github.com/allisson/filevault/internal/files/repository"
	filesService "github.com/allisson/filevault/internal/files/service"
	"github.com/allisson/filevault/internal/files/storage"
	filesUseCase "github.com/allisson/filevault/internal/files/usecase"
)

// FileRepository returns the file metadata repository.
func (c *Container) FileRepository() (filesUseCase.FileRepository, error) {
	c.fileRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.storeError("fileRepo", fmt.Errorf("failed to get database for file repository: %w", err))
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.fileRepo = filesRepository.NewMySQLFileRepository(db)
		case "postgres":
			c.fileRepo = filesRepository.NewPostgreSQLFileRepository(db)
		default:
			c.storeError("fileRepo", fmt.Errorf("unsupported database driver: %s", c.config.DBDriver))
		}
	})
	if err := c.storedError("fileRepo"); err != nil {
		return nil, err
	}
	return c.fileRepo, nil
}

// GrantRepository returns the share grant repository.
func (c *Container) GrantRepository() (filesUseCase.GrantRepository, error) {
	c.grantRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.storeError("grantRepo", fmt.Errorf("failed to get database for grant repository: %w", err))
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.grantRepo = filesRepository.NewMySQLGrantRepository(db)
		case "postgres":
			c.grantRepo = filesRepository.NewPostgreSQLGrantRepository(db)
		default:
			c.storeError("grantRepo", fmt.Errorf("unsupported database driver: %s", c.config.DBDriver))
		}
	})
	if err := c.storedError("grantRepo"); err != nil {
		return nil, err
	}
	return c.grantRepo, nil
}

// BlobStore returns the ciphertext store backed by BLOB_BUCKET_URL.
func (c *Container) BlobStore() (filesUseCase.BlobStore, error) {
	c.blobStoreInit.Do(func() {
		c.bucketInit.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			bucket, err := storage.OpenBucket(ctx, c.config.BlobBucketURL)
			if err != nil {
				c.storeError("blobStore", err)
				return
			}
			c.bucket = bucket
		})
		if c.bucket != nil {
			c.blobStore = storage.NewBlobStore(c.bucket)
		}
	})
	if err := c.storedError("blobStore"); err != nil {
		return nil, err
	}
	return c.blobStore, nil
}

// TokenGenerator returns the public link token generator.
func (c *Container) TokenGenerator() filesService.TokenGenerator {
	c.tokenGeneratorInit.Do(func() {
		c.tokenGenerator = filesService.NewTokenGenerator()
	})
	return c.tokenGenerator
}

// FileUseCase returns the file use case wrapped with metrics.
func (c *Container) FileUseCase() (filesUseCase.FileUseCase, error) {
	c.fileUseCaseInit.Do(func() {
		uc, err := c.initFileUseCase()
		if err != nil {
			c.storeError("fileUseCase", err)
			return
		}
		c.fileUseCase = uc
	})
	if err := c.storedError("fileUseCase"); err != nil {
		return nil, err
	}
	return c.fileUseCase, nil
}

// PublicLinkUseCase returns the public link use case wrapped with metrics.
func (c *Container) PublicLinkUseCase() (filesUseCase.PublicLinkUseCase, error) {
	c.publicLinkUseCaseInit.Do(func() {
		uc, err := c.initPublicLinkUseCase()
		if err != nil {
			c.storeError("publicLinkUseCase", err)
			return
		}
		c.publicLinkUseCase = uc
	})
	if err := c.storedError("publicLinkUseCase"); err != nil {
		return nil, err
	}
	return c.publicLinkUseCase, nil
}

// FileHandler returns the authenticated file handler.
func (c *Container) FileHandler() (*filesHTTP.FileHandler, error) {
	c.fileHandlerInit.Do(func() {
		uc, err := c.FileUseCase()
		if err != nil {
			c.storeError("fileHandler", fmt.Errorf("failed to get file use case for file handler: %w", err))
			return
		}
		c.fileHandler = filesHTTP.NewFileHandler(uc, c.config.MaxUploadSizeBytes, c.Logger())
	})
	if err := c.storedError("fileHandler"); err != nil {
		return nil, err
	}
	return c.fileHandler, nil
}

// PublicLinkHandler returns the public link handler.
func (c *Container) PublicLinkHandler() (*filesHTTP.PublicLinkHandler, error) {
	c.publicLinkHandlerInit.Do(func() {
		uc, err := c.PublicLinkUseCase()
		if err != nil {
			c.storeError(
				"publicLinkHandler",
				fmt.Errorf("failed to get public link use case for public link handler: %w", err),
			)
			return
		}
		c.publicLinkHandler = filesHTTP.NewPublicLinkHandler(uc, c.Logger())
	})
	if err := c.storedError("publicLinkHandler"); err != nil {
		return nil, err
	}
	return c.publicLinkHandler, nil
}

// initFileUseCase creates the file use case with all its dependencies.
func (c *Container) initFileUseCase() (filesUseCase.FileUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for file use case: %w", err)
	}

	fileRepo, err := c.FileRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get file repository for file use case: %w", err)
	}

	grantRepo, err := c.GrantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant repository for file use case: %w", err)
	}

	blobs, err := c.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob store for file use case: %w", err)
	}

	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user directory for file use case: %w", err)
	}

	cipher, err := c.FileCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get file cipher for file use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for file use case: %w", err)
	}

	useCase := filesUseCase.NewFileUseCase(
		txManager,
		fileRepo,
		grantRepo,
		blobs,
		users,
		cipher,
		time.Now,
		c.Logger(),
	)
	return filesUseCase.NewFileUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initPublicLinkUseCase creates the public link use case with all its dependencies.
func (c *Container) initPublicLinkUseCase() (filesUseCase.PublicLinkUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for public link use case: %w", err)
	}

	fileRepo, err := c.FileRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get file repository for public link use case: %w", err)
	}

	blobs, err := c.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob store for public link use case: %w", err)
	}

	cipher, err := c.FileCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get file cipher for public link use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for public link use case: %w", err)
	}

	useCase := filesUseCase.NewPublicLinkUseCase(
		txManager,
		fileRepo,
		blobs,
		cipher,
		c.TokenGenerator(),
		filesUseCase.PublicLinkConfig{
			DefaultHours: c.config.PublicLinkDefaultHours,
			MaxHours:     c.config.PublicLinkMaxHours,
		},
		time.Now,
		c.Logger(),
	)
	return filesUseCase.NewPublicLinkUseCaseWithMetrics(useCase, businessMetrics), nil
}
