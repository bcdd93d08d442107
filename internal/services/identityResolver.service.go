package services

import (
	"attendtrack/internal/logger"
	"attendtrack/internal/models"
	"attendtrack/internal/utils"
	"context"
)

// IdentityDirectory is the part of the identity store the resolver needs.
type IdentityDirectory interface {
	ListEmployees(ctx context.Context) ([]models.DirectoryEntry, error)
	CreateImported(ctx context.Context, displayName string) (string, bool, error)
}

// NameCache maps cleaned names to identity ids for the duration of one upload.
// It is not safe for concurrent use.
type NameCache map[string]string

func NewNameCache() NameCache {
	return NameCache{}
}

type IdentityResolver struct {
	directory IdentityDirectory
	threshold int
	log       logger.Logger
}

func NewIdentityResolver(directory IdentityDirectory, threshold int) *IdentityResolver {
	return &IdentityResolver{
		directory: directory,
		threshold: threshold,
		log:       logger.New("IdentityResolver"),
	}
}

// Resolve returns the identity id for rawName, matching an existing employee
// whose name scores at least the threshold or creating a new one. Ties keep
// the first employee in directory order, which is unspecified.
func (r *IdentityResolver) Resolve(ctx context.Context, rawName string, cache NameCache) (string, error) {
	log := r.log.Function("Resolve")

	cleaned := utils.CollapseWhitespace(rawName)
	if id, ok := cache[cleaned]; ok {
		return id, nil
	}

	employees, err := r.directory.ListEmployees(ctx)
	if err != nil {
		return "", log.Err("failed to load employee directory", err)
	}

	bestScore, bestID := 0, ""
	for _, employee := range employees {
		if employee.DisplayName == nil || *employee.DisplayName == "" {
			continue
		}
		if score := utils.TokenSortRatio(cleaned, *employee.DisplayName); score > bestScore {
			bestScore, bestID = score, employee.ID
		}
	}

	if bestID != "" && bestScore >= r.threshold {
		log.Debug("Matched existing employee",
			"name", cleaned,
			"id", bestID,
			"score", bestScore,
			"threshold", r.threshold)
		cache[cleaned] = bestID
		return bestID, nil
	}

	if len(employees) > 0 {
		log.Info("No employee above threshold, creating one",
			"name", cleaned,
			"bestScore", bestScore,
			"threshold", r.threshold)
	} else {
		log.Info("Employee directory is empty, creating one", "name", cleaned)
	}

	id, created, err := r.directory.CreateImported(ctx, cleaned)
	if err != nil {
		return "", log.Err("failed to create employee", err, "name", cleaned)
	}

	if created {
		log.Info("Created employee", "name", cleaned, "id", id)
	}

	cache[cleaned] = id
	return id, nil
}
