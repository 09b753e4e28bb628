package providers

import (
	"errors"
	"fmt"
	"moneyprint/internal/structures"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	for _, hhmm := range append(append([]string{}, c.conf.Scheduler.TwiceDaily...), c.conf.Scheduler.ThriceDaily...) {
		if _, err := time.Parse("15:04", hhmm); err != nil {
			return fmt.Errorf("invalid config: scheduler time %q: %w", hhmm, err)
		}
	}
	if c.conf.Storage.BackupInterval > 0 && c.conf.Storage.BackupDir == "" {
		return errors.New("invalid config: storage.backupDir is required when backupInterval is set")
	}
	return nil
}
