package internal

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"wschat/errors"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

const (
	InputModeLine  = "line"
	InputModeChunk = "chunk"
)

// Args are the positional command line arguments: server address then username.
type Args struct {
	Address  string `validate:"required"`
	Scheme   string `validate:"oneof=ws wss"`
	Host     string `validate:"required"`
	Username string `validate:"required"`
}

// Config defines the client-side environment variables.
type Config struct {
	LogLevel         string        `env:"LOG_LEVEL,default=ERROR"`
	InputMode        string        `env:"INPUT_MODE,default=line" validate:"oneof=line chunk"`
	ChunkSize        int           `env:"CHUNK_SIZE,default=1024" validate:"gt=0"`
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT,default=45s" validate:"gte=0"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT,default=0s" validate:"gte=0"`
}

// ParseArgs reads the address and username. Nothing touches the network here.
func ParseArgs(args []string) (Args, error) {
	if len(args) < 1 {
		return Args{}, errors.ErrMissingAddress
	}
	if len(args) < 2 {
		return Args{}, errors.ErrMissingUsername
	}

	u, err := url.Parse(args[0])
	if err != nil {
		return Args{}, fmt.Errorf("%w: %v", errors.ErrInvalidAddress, err)
	}

	parsed := Args{
		Address:  args[0],
		Scheme:   strings.ToLower(u.Scheme),
		Host:     u.Host,
		Username: strings.TrimSpace(args[1]),
	}
	if err := validate.Struct(parsed); err != nil {
		return Args{}, toArgsError(err, args[0])
	}
	return parsed, nil
}

func toArgsError(err error, address string) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fe := range fieldErrors {
			if fe.Field() == "Username" {
				return errors.ErrMissingUsername
			}
		}
	}
	return fmt.Errorf("%w: %q must be a ws:// or wss:// url", errors.ErrInvalidAddress, address)
}

// LoadConfig loads an optional .env file then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	config.InputMode = strings.ToLower(config.InputMode)
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("%w: %v", errors.ErrInvalidConfig, err)
	}
	return config, nil
}
