package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	userUseCase "github.com/allisson/filevault/internal/user/usecase"
)

// RunCreateUser registers a user through the same use case as the HTTP register endpoint.
// Output is either human-readable text or a JSON object with id and username.
func RunCreateUser(
	ctx context.Context,
	users userUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	username, password, format string,
) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	user, err := users.Register(ctx, userUseCase.RegisterInput{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("user created", slog.String("user_id", user.ID.String()))

	if format == "json" {
		return json.NewEncoder(writer).Encode(map[string]string{
			"id":       user.ID.String(),
			"username": user.Username,
		})
	}

	_, _ = fmt.Fprintf(writer, "User created\n  id: %s\n  username: %s\n", user.ID, user.Username)
	return nil
}
