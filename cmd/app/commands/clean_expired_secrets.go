package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	secretsUseCase "github.com/allisson/onetime/internal/secrets/usecase"
)

// RunCleanExpiredSecrets deletes secrets that expired more than the given
// number of days ago. Supports dry-run mode to preview the deletion count
// and both text/JSON output formats.
func RunCleanExpiredSecrets(
	ctx context.Context,
	useCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	w io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning expired secrets",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := useCase.CleanupExpired(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired secrets: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"count":   count,
			"days":    days,
			"dry_run": dryRun,
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else if dryRun {
		fmt.Fprintf(w, "Dry-run mode: Would delete %d expired secret(s) older than %d day(s)\n", count, days)
	} else {
		fmt.Fprintf(w, "Successfully deleted %d expired secret(s) older than %d day(s)\n", count, days)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
