// internal/utils/logger/config.go
package logger

import "io"

type Config struct {
	Debug  bool      // уровень debug вместо info
	Pretty bool      // цветной вывод для терминала
	Output io.Writer // по умолчанию os.Stdout
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Debug:  false,
		Pretty: true,
	}
}
