package services

import (
	"context"

	"resqwave-dispatch-service/internal/domain/repository"
	"resqwave-dispatch-service/pkg/utils"
)

// nextID issues the next code for prefix. It must run inside the transaction
// that inserts the row so the sequence lock covers the insert.
func nextID(ctx context.Context, repos repository.Repositories, prefix string) (string, error) {
	n, err := repos.Sequences.Next(ctx, prefix)
	if err != nil {
		return "", err
	}
	return utils.FormatCode(prefix, n), nil
}
