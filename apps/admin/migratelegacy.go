package main

import (
	"fmt"

	"github.com/escolardev/escolar/core/task"
)

// migrateLegacy rewrites every non-canonical task roster (pair-array and
// flat-pair shapes from the old data) into the canonical record sequence.
// Safe to re-run; canonical rosters are left untouched.
func (cli *commandLine) migrateLegacy() error {
	converted, err := task.MigrateLegacyRosters(cli.taskStore)
	if err != nil {
		return err
	}
	fmt.Printf("migrated %d task roster(s)\n", converted)
	return nil
}
