package logging

import (
	"fmt"
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

func validateConfig(cfg Config) error {
	const op errors.Op = "logging.validateConfig"

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		detailed := errors.New(op).Err(err).Msg(errMsgConfigInvalid)
		return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, detailed, err.Error())
	}

	return nil
}
