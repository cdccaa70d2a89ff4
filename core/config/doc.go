// Package config provides configuration management for the reconciler.
//
// It utilizes Viper for loading configuration from an optional config.yaml,
// a .env file and environment variables. Environment variables win.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, request timeout)
//   - Storage: S3/MinIO credentials, bucket and report prefix
//   - Log: Logging level and format
//   - Compare: the reconciliation job (key, exclusions, tolerances, both sources)
//
// Every field with a default tag is bound to an environment variable named
// after its path, e.g. COMPARE_LEFT_DATABASE_NAME. Map fields such as
// compare.tolerances can only be set in config.yaml.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Compare.PrimaryKey)
package config
