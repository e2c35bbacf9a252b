package cleanup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/soruforum/soruforum/internal/models"
	"github.com/soruforum/soruforum/internal/repo"
)

// minAge protects uploads still being linked to a user row; only files
// older than this are considered orphaned.
const minAge = time.Hour

// Avatars removes avatar files no longer referenced by any user, e.g. images
// left behind by a replaced profile picture after a crash mid-update.
type Avatars struct {
	Dir   string
	Users *repo.UserRepo
}

// Start runs the sweep on an hourly cron schedule and returns the cron
// handle so the caller can stop it on shutdown.
func (a *Avatars) Start() *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("@hourly", a.Sweep); err != nil {
		// "@hourly" is a constant expression; this cannot fail at runtime.
		slog.Error("cleanup: add cron func", "err", err)
		return c
	}
	c.Start()
	return c
}

// Sweep deletes orphaned avatar files. Errors are logged and the sweep
// continues; a failed run is retried on the next schedule.
func (a *Avatars) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		slog.Error("cleanup: read upload dir", "dir", a.Dir, "err", err)
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == models.DefaultAvatar {
			continue
		}
		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) < minAge {
			continue
		}

		inUse, err := a.Users.AvatarInUse(ctx, entry.Name())
		if err != nil {
			slog.Error("cleanup: avatar lookup", "file", entry.Name(), "err", err)
			return
		}
		if inUse {
			continue
		}

		if err := os.Remove(filepath.Join(a.Dir, entry.Name())); err != nil {
			slog.Error("cleanup: remove avatar", "file", entry.Name(), "err", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("cleanup: removed orphaned avatars", "count", removed)
	}
}
