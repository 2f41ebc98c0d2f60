package config

import "errors"

var (
	errEndpointRequired        = errors.New("opc endpoint is required")
	errLevelNodeRequired       = errors.New("level node id is required")
	errTemperatureNodeRequired = errors.New("temperature node id is required")
	errJWTSecretRequired       = errors.New("jwt secret is required")
	errInvalidNullReading      = errors.New("invalid null_reading policy")
)
