// Package config loads the diallog configuration.
//
// Values are layered, lowest precedence first: built-in defaults,
// config.yml, a .env file and DIALLOG_* environment variables. Nested keys
// map to upper-case underscore names, so clova.api_key is read from
// DIALLOG_CLOVA_API_KEY.
//
//	cfg, err := config.Load(config.WithConfigFile("./config.yml"))
package config
