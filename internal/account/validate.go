package account

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidNick  = fmt.Errorf("%w: nickname must be 3-16 letters, digits or underscores", ErrInvalidInput)
	ErrInvalidPrice = fmt.Errorf("%w: price must be a positive integer", ErrInvalidInput)
)

var nickPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nick", func(fl validator.FieldLevel) bool {
		return nickPattern.MatchString(fl.Field().String())
	})
	return v
}

type listing struct {
	Nick  string `validate:"required,min=3,max=16,nick"`
	Price int64  `validate:"gt=0"`
}

// ValidateNick checks the nickname rules: 3-16 characters of letters, digits or underscore.
func ValidateNick(nick string) error {
	if err := validate.Var(nick, "required,min=3,max=16,nick"); err != nil {
		return ErrInvalidNick
	}
	return nil
}

// ValidateListing checks a nickname and price pair for a new listing.
// Nickname problems are reported before price problems.
func ValidateListing(nick string, price int64) error {
	err := validate.Struct(listing{Nick: nick, Price: price})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for _, fe := range verrs {
		if fe.Field() == "Nick" {
			return ErrInvalidNick
		}
	}
	return ErrInvalidPrice
}
