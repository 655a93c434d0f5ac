package req

import (
	"encoding/json"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// Decode - разбор JSON тела запроса и проверка тегов validate
func Decode[T any](body io.Reader) (T, error) {
	var payload T
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return payload, errors.Wrap(err, "decode request body")
	}

	if err := validate.Struct(payload); err != nil {
		return payload, errors.Wrap(err, "validate request body")
	}

	return payload, nil
}
