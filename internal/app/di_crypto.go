package app

import (
	"context"
	"fmt"
	"time"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// FileSecret returns the process-wide file encryption secret, unwrapped through KMS
// when KMS_KEY_URI is configured.
func (c *Container) FileSecret() (*cryptoDomain.FileSecret, error) {
	c.fileSecretInit.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		secret, err := cryptoService.LoadFileSecret(
			ctx,
			c.KMSService(),
			c.config.FileEncryptionSecret,
			c.config.KMSKeyURI,
		)
		if err != nil {
			c.storeError("fileSecret", fmt.Errorf("failed to load file encryption secret: %w", err))
			return
		}
		c.fileSecret = secret
	})
	if err := c.storedError("fileSecret"); err != nil {
		return nil, err
	}
	return c.fileSecret, nil
}

// KeyDeriver returns the PBKDF2 key deriver bound to the file secret.
func (c *Container) KeyDeriver() (cryptoService.KeyDeriver, error) {
	c.keyDeriverInit.Do(func() {
		secret, err := c.FileSecret()
		if err != nil {
			c.storeError("keyDeriver", err)
			return
		}
		deriver, err := cryptoService.NewPBKDF2KeyDeriver(secret, c.config.KDFIterations)
		if err != nil {
			c.storeError("keyDeriver", fmt.Errorf("failed to create key deriver: %w", err))
			return
		}
		c.keyDeriver = deriver
	})
	if err := c.storedError("keyDeriver"); err != nil {
		return nil, err
	}
	return c.keyDeriver, nil
}

// FileCipher returns the cipher used for file content.
func (c *Container) FileCipher() (cryptoService.FileCipher, error) {
	c.fileCipherInit.Do(func() {
		algorithm, err := cryptoDomain.ParseAlgorithm(c.config.FileEncryptionAlgorithm)
		if err != nil {
			c.storeError("fileCipher", fmt.Errorf("invalid FILE_ENCRYPTION_ALGORITHM %q: %w",
				c.config.FileEncryptionAlgorithm, err))
			return
		}
		deriver, err := c.KeyDeriver()
		if err != nil {
			c.storeError("fileCipher", err)
			return
		}
		c.fileCipher = cryptoService.NewFileCipher(deriver, c.AEADManager(), algorithm)
	})
	if err := c.storedError("fileCipher"); err != nil {
		return nil, err
	}
	return c.fileCipher, nil
}
