package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/humanosaude/portal/internal/logger"
)

type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	GoTo(version uint) error
	Version() (uint, bool, error)
	Force(version int) error
}

var errVersionRequired = errors.New("-version is required")

func execute(ctx context.Context, m migrator, cmd string, steps, version int, log *logger.Logger) error {
	const component = "Main"

	if err := ctx.Err(); err != nil {
		return err
	}

	switch cmd {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		if steps == 0 {
			return errors.New("-n must not be zero")
		}
		return m.Steps(steps)
	case "goto":
		if version < 0 {
			return errVersionRequired
		}
		return m.GoTo(uint(version))
	case "force":
		if version < 0 {
			return errVersionRequired
		}
		return m.Force(version)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info(component, "No migrations applied")
			return nil
		}
		log.Info(component, "Current migration version: version=%d dirty=%t", v, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
