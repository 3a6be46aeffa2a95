package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field constraints and the home/away pairing of the team lines.
func (r *Record) Validate() error {
	if err := validatorInstance().Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid game record: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("validating game record: %w", err)
	}

	homes := 0
	for _, ts := range r.TeamStats {
		if ts.IsHome {
			homes++
		}
	}
	if homes != 1 {
		return fmt.Errorf("invalid game record: expected exactly one home team line, got %d", homes)
	}
	return nil
}
